package controllers

import (
	"net/http"

	"github.com/trancendwear/trancend/internal/runtime"
	"github.com/trancendwear/trancend/pkg/bind"
	"github.com/trancendwear/trancend/pkg/record"
	"github.com/trancendwear/trancend/pkg/response"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerInput struct {
	Email                string `json:"email"    validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Name                 string `json:"name"     validate:"nullable,max=100"`
}

// Login exchanges credentials for a session; backend rejections keep
// their original status so the form can show a field-level message.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rt := runtime.FromCtx(r)
	identity, err := rt.Session.Login(in.Email, in.Password)
	if err != nil {
		response.Error(w, upstreamStatus(err), err.Error())
		return
	}
	response.Success(w, identity)
}

// Register creates an account and logs it in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rt := runtime.FromCtx(r)
	identity, err := rt.Session.Register(in.Email, in.Password, in.Name)
	if err != nil {
		response.Error(w, upstreamStatus(err), err.Error())
		return
	}
	response.Created(w, identity)
}

// Logout clears the session locally; there is nothing to await remotely.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	rt.Session.Logout()
	response.Success(w, map[string]bool{"logged_out": true})
}

// Me reports the session's identity state. ready=false means the startup
// token refresh has not completed and clients should render anonymously.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	rt := runtime.FromCtx(r)
	response.Success(w, map[string]interface{}{
		"ready":     rt.Session.Ready(),
		"logged_in": rt.Session.LoggedIn(),
		"identity":  rt.Session.Identity(),
	})
}

// upstreamStatus maps a backend error to a response status: the original
// 4xx passes through, anything else is a bad gateway.
func upstreamStatus(err error) int {
	if status := record.StatusOf(err); status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}
