package api

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges the admin secret for a bearer token. Storing the token is
// the caller's job.
func (c *Client) Login(ctx context.Context, secret string) (LoginResult, error) {
	res, err := call[LoginResult](ctx, c, "/auth/login", RequestOptions{
		Method: http.MethodPost,
		Body:   LoginInput{Secret: secret},
	})
	if err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, errors.New("login: server returned an empty token")
	}
	return res, nil
}
