package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/andrescamacho/starwars-movies-go/internal/application/logging"
	"github.com/andrescamacho/starwars-movies-go/internal/application/mediator"
	"github.com/andrescamacho/starwars-movies-go/internal/domain/shared"
)

// repositoryFailure wraps unexpected repository errors as internal failures.
// Invalid input and conflicts reported by the repository pass through as is.
func repositoryFailure(message string, err error) error {
	if errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrConflict) {
		return err
	}
	return shared.NewInternalError(message, err)
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return shared.NewInvalidInputError("user id is required")
	}
	return nil
}

// publish announces a committed change. Subscriber failures are logged and
// never fail the command that already succeeded.
func publish(ctx context.Context, publisher mediator.Publisher, notification mediator.Notification) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, notification); err != nil {
		logging.FromContext(ctx).Warn("notification subscriber failed",
			logging.RequestType(mediator.RequestName(notification)),
			logging.Error(err),
		)
	}
}
