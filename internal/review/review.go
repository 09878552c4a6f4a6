// Package review exposes the confidence-gated verification queue. Automatic
// tags land unverified; the ones the models were neither sure nor dismissive
// about wait here for a human decision.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pictor/internal/catalog"
	"pictor/internal/config"
)

// Actions a reviewer can take on a queued link.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

var (
	// ErrInvalidAction reports an action other than approve or reject.
	// Nothing is mutated in that case.
	ErrInvalidAction = errors.New("invalid review action")
	// ErrLinkNotFound reports a decision aimed at a link that does not exist.
	ErrLinkNotFound = errors.New("tag link not found")
)

// Queue selects reviewable links and applies reviewer decisions.
type Queue struct {
	store  *catalog.Store
	lower  float64
	upper  float64
	logger *slog.Logger
}

// NewQueue builds a review queue over the configured confidence window.
func NewQueue(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		store:  store,
		lower:  cfg.Review.LowerBound,
		upper:  cfg.Review.UpperBound,
		logger: logger,
	}
}

// List returns up to limit queued links, most confident first. Only
// unverified links strictly inside the confidence window on live images
// qualify.
func (q *Queue) List(ctx context.Context, limit int) ([]catalog.ReviewItem, error) {
	return q.store.ListReviewQueue(ctx, q.lower, q.upper, limit)
}

// Apply carries out one reviewer decision. Approval locks the link in as
// verified with full confidence; rejection removes it outright. Unknown
// actions mutate nothing and return ErrInvalidAction.
func (q *Queue) Apply(ctx context.Context, imageID, tagID int64, action string) error {
	switch action {
	case ActionApprove, ActionReject:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	link, err := q.store.GetLink(ctx, imageID, tagID)
	if err != nil {
		return err
	}
	if link == nil {
		return fmt.Errorf("%w: image %d tag %d", ErrLinkNotFound, imageID, tagID)
	}

	switch action {
	case ActionApprove:
		if err := q.store.ApproveLink(ctx, imageID, tagID); err != nil {
			return err
		}
	case ActionReject:
		if err := q.store.DeleteLink(ctx, imageID, tagID); err != nil {
			return err
		}
	}

	q.logger.Info("review decision applied",
		"image_id", imageID, "tag_id", tagID, "action", action)
	return nil
}
