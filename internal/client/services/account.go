package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

const (
	profilePath  = "/users/profile/update/"
	passwordPath = "/users/password/change/"
)

// IdentityUpdater is the part of the session a profile edit touches.
type IdentityUpdater interface {
	UpdateIdentityFields(patch models.IdentityPatch)
}

// AccountService edits the signed-in user's own profile and password.
type AccountService interface {
	UpdateProfile(ctx context.Context, form forms.ProfileForm, photo string) error
	ChangePassword(ctx context.Context, form forms.PasswordForm) error
}

type accountService struct {
	client    client.Client
	validator Validator
	session   IdentityUpdater
}

func NewAccountService(c client.Client, v Validator, session IdentityUpdater) AccountService {
	return &accountService{client: c, validator: v, session: session}
}

type profileResponse struct {
	FullName     string       `json:"full_name"`
	PhoneNumber  models.Phone `json:"phone_number"`
	ProfilePhoto *string      `json:"profile_photo"`
}

// UpdateProfile saves the display name and, when photo is a local path, a
// new profile photo. The session identity is updated from the response.
func (s *accountService) UpdateProfile(ctx context.Context, form forms.ProfileForm, photo string) error {
	if err := s.validator.Validate(form); err != nil {
		return err
	}

	var uploads []forms.Upload
	if photo != "" {
		uploads = append(uploads, forms.Upload{Field: "profile_photo", Path: photo})
	}
	body, err := forms.Encode(form, uploads...)
	if err != nil {
		return err
	}

	var resp profileResponse
	if err := s.client.Do(ctx, client.Request{Method: http.MethodPatch, Path: profilePath, Body: body}, &resp); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	patch := models.IdentityPatch{FullName: &form.FullName}
	if resp.FullName != "" {
		patch.FullName = &resp.FullName
	}
	if resp.PhoneNumber != "" {
		phone := string(resp.PhoneNumber)
		patch.PhoneNumber = &phone
	}
	if resp.ProfilePhoto != nil {
		patch.ProfilePhoto = resp.ProfilePhoto
	}
	s.session.UpdateIdentityFields(patch)
	return nil
}

func (s *accountService) ChangePassword(ctx context.Context, form forms.PasswordForm) error {
	if err := s.validator.Validate(form); err != nil {
		return err
	}
	if err := s.client.Do(ctx, client.Request{Method: http.MethodPost, Path: passwordPath, Body: form}, nil); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
