package handler

import (
	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// IDRequest carries the :id path parameter. Embed it in requests that also
// have a body.
type IDRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *IDRequest) Validate() error {
	return validation.Struct(r)
}

// UUID is only safe to call after Validate.
func (r *IDRequest) UUID() uuid.UUID {
	return uuid.MustParse(r.ID)
}

type PageRequest struct {
	Limit  int `query:"limit" validate:"gte=0"`
	Offset int `query:"offset" validate:"gte=0"`
}

func (r *PageRequest) Validate() error {
	return validation.Struct(r)
}

func (r *PageRequest) Page() model.Page {
	return model.Page{Limit: r.Limit, Offset: r.Offset}.Normalize()
}

type SearchRequest struct {
	Q string `query:"q" validate:"max=100"`
}

func (r *SearchRequest) Validate() error {
	return validation.Struct(r)
}

type SearchPageRequest struct {
	SearchRequest
	PageRequest
}

func (r *SearchPageRequest) Validate() error {
	return validation.Struct(r)
}

// optionalUUID parses an already validated, possibly empty, uuid string.
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id := uuid.MustParse(s)
	return &id
}
