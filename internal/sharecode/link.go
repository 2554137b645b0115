package sharecode

import (
	"fmt"
	"net/url"

	"github.com/esuji5/uchiwa-generator/internal/scene"
)

// Param is the query key that carries the token.
const Param = "state"

// ShareURL returns base with its query replaced by the scene token.
func ShareURL(base string, s scene.Scene) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("sharecode: base url: %w", err)
	}
	token, err := Encode(s)
	if err != nil {
		return "", err
	}
	u.RawQuery = Param + "=" + token
	u.Fragment = ""
	return u.String(), nil
}

// ParamsOnly returns just the query part of a share link, leading "?" included.
func ParamsOnly(s scene.Scene) (string, error) {
	token, err := Encode(s)
	if err != nil {
		return "", err
	}
	return "?" + Param + "=" + token, nil
}

// Address is the location the session was opened from. A reset clears its
// token so that reloading does not restore the discarded scene.
type Address struct {
	u *url.URL
}

// ParseAddress accepts a full URL, a bare "?state=..." query, or an empty string.
func ParseAddress(raw string) (*Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("sharecode: address: %w", err)
	}
	return &Address{u: u}, nil
}

// StateToken returns the token carried by the address, if any.
func (a *Address) StateToken() (string, bool) {
	if a == nil || a.u == nil {
		return "", false
	}
	v := a.u.Query().Get(Param)
	return v, v != ""
}

// SetState points the address at the given token.
func (a *Address) SetState(token string) {
	if a.u == nil {
		a.u = &url.URL{}
	}
	a.u.RawQuery = Param + "=" + token
}

// ClearState drops the token and keeps every other query value.
func (a *Address) ClearState() {
	if a == nil || a.u == nil {
		return
	}
	q := a.u.Query()
	q.Del(Param)
	a.u.RawQuery = q.Encode()
}

func (a *Address) String() string {
	if a == nil || a.u == nil {
		return ""
	}
	return a.u.String()
}
