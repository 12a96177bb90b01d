package steps

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

var errorKinds = map[string]error{
	"invalid input":    shared.ErrInvalidInput,
	"conflict":         shared.ErrConflict,
	"not found":        shared.ErrNotFound,
	"unauthorized":     shared.ErrUnauthorized,
	"forbidden":        shared.ErrForbidden,
	"internal failure": shared.ErrInternal,
}

func errorKind(name string) (error, error) {
	kind, ok := errorKinds[name]
	if !ok {
		return nil, fmt.Errorf("unknown error kind %q", name)
	}
	return kind, nil
}

func assertErrorKind(err error, name string) error {
	kind, lookupErr := errorKind(name)
	if lookupErr != nil {
		return lookupErr
	}
	if err == nil {
		return fmt.Errorf("expected a %q error, got none", name)
	}
	if !errors.Is(err, kind) {
		return fmt.Errorf("expected a %q error, got %v", name, err)
	}
	return nil
}
