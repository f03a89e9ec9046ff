package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// Validator checks a form before it is sent.
type Validator interface {
	Validate(form any) error
}

// ResourceService is the CRUD surface of one backend collection.
type ResourceService[T any] interface {
	Collection() string
	List(ctx context.Context, query url.Values) (models.Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, form any, uploads ...forms.Upload) (T, error)
	Update(ctx context.Context, id int64, form any, uploads ...forms.Upload) (T, error)
	Archive(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type resourceService[T any] struct {
	client     client.Client
	validator  Validator
	collection string
}

// NewResourceService binds a collection path such as "/core/rooms/".
func NewResourceService[T any](c client.Client, v Validator, collection string) ResourceService[T] {
	return &resourceService[T]{client: c, validator: v, collection: collection}
}

func (s *resourceService[T]) Collection() string {
	return s.collection
}

func (s *resourceService[T]) item(id int64, action string) string {
	p := s.collection + strconv.FormatInt(id, 10) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

func (s *resourceService[T]) List(ctx context.Context, query url.Values) (models.Page[T], error) {
	var page models.Page[T]
	err := s.client.Do(ctx, client.Request{Method: http.MethodGet, Path: s.collection, Query: query}, &page)
	if err != nil {
		return models.Page[T]{}, fmt.Errorf("list %s: %w", s.collection, err)
	}
	return page, nil
}

func (s *resourceService[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	err := s.client.Do(ctx, client.Request{Method: http.MethodGet, Path: s.item(id, "")}, &out)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s: %w", s.item(id, ""), err)
	}
	return out, nil
}

func (s *resourceService[T]) send(ctx context.Context, method, path string, form any, uploads []forms.Upload) (T, error) {
	var zero T
	forms.ApplyDefaults(form)
	if err := s.validator.Validate(form); err != nil {
		return zero, err
	}
	body, err := forms.Encode(form, uploads...)
	if err != nil {
		return zero, err
	}

	var out T
	if err := s.client.Do(ctx, client.Request{Method: method, Path: path, Body: body}, &out); err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return out, nil
}

// Create validates form and POSTs it to the collection.
func (s *resourceService[T]) Create(ctx context.Context, form any, uploads ...forms.Upload) (T, error) {
	return s.send(ctx, http.MethodPost, s.collection, form, uploads)
}

// Update validates form and PATCHes the item.
func (s *resourceService[T]) Update(ctx context.Context, id int64, form any, uploads ...forms.Upload) (T, error) {
	return s.send(ctx, http.MethodPatch, s.item(id, ""), form, uploads)
}

func (s *resourceService[T]) action(ctx context.Context, id int64, action string) error {
	path := s.item(id, action)
	if err := s.client.Do(ctx, client.Request{Method: http.MethodPost, Path: path}, nil); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (s *resourceService[T]) Archive(ctx context.Context, id int64) error {
	return s.action(ctx, id, "archive")
}

func (s *resourceService[T]) Restore(ctx context.Context, id int64) error {
	return s.action(ctx, id, "restore")
}

func (s *resourceService[T]) Delete(ctx context.Context, id int64) error {
	path := s.item(id, "")
	if err := s.client.Do(ctx, client.Request{Method: http.MethodDelete, Path: path}, nil); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
