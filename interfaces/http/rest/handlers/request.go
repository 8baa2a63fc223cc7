package handlers

import (
	"net/http"

	"edutube/pkg/auth"
	"edutube/pkg/common"
	pkgerrors "edutube/pkg/errors"
	"edutube/pkg/utils"
)

// currentUser returns the authenticated caller set by the auth middleware.
func currentUser(r *http.Request) (*auth.UserContext, error) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		return nil, pkgerrors.NewUnauthorizedError("")
	}
	return user, nil
}

// bind decodes and validates a JSON request body.
func bind(r *http.Request, dst interface{}) error {
	if err := common.DecodeJSON(r, dst); err != nil {
		return err
	}
	return utils.ValidateStruct(dst)
}
