package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Category of a discussion
type Category string

const (
	CategoryQuestions Category = "Questions"
	CategorySolutions Category = "Solutions"
	CategoryGeneral   Category = "General"
	CategoryExams     Category = "Exams"
	CategoryStudy     Category = "Study"
	CategoryCareer    Category = "Career"
	CategoryFeedback  Category = "Feedback"
	CategoryOther     Category = "Other"
)

// Approach describes how a solution was reached. Only solutions carry one.
type Approach string

const (
	ApproachLogic    Approach = "Logic"
	ApproachStepwise Approach = "Stepwise"
	ApproachFormula  Approach = "Formula"
	ApproachShortcut Approach = "Shortcut"
	ApproachOther    Approach = "Other"
)

const (
	// MaxTagLength is the longest tag accepted, in characters
	MaxTagLength = 20
	// ListLimit caps every listing
	ListLimit = 50
	// UserSearchLimit caps the user search used for mention autocomplete
	UserSearchLimit = 5
)

// Discussion is the aggregate root: it owns its whole reply tree
type Discussion struct {
	ID         int64
	QuestionID *int64 // nil for general forum posts
	Author     User   // only ID is set until resolved
	Title      string
	Content    string
	Category   Category
	Approach   Approach
	Tags       []string
	Reactions
	Mentions  []User
	Replies   []ReplyNode
	IsPinned  bool
	Views     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiscussionEdit carries the fields an author may change
type DiscussionEdit struct {
	Title    string
	Content  string
	Approach Approach
}

// ListFilter selects the ordering of a listing
type ListFilter string

const (
	FilterTrending  ListFilter = "trending"
	FilterNewest    ListFilter = "newest"
	FilterOldest    ListFilter = "oldest"
	FilterMostLiked ListFilter = "most-liked"
)

// ListOptions narrows a listing of forum discussions
type ListOptions struct {
	Filter   ListFilter
	Category Category
	Search   string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type discussionRules struct {
	Title    string   `validate:"required"`
	Content  string   `validate:"required"`
	Category Category `validate:"oneof=Questions Solutions General Exams Study Career Feedback Other"`
	Approach Approach `validate:"omitempty,oneof=Logic Stepwise Formula Shortcut Other"`
	Tags     []string `validate:"dive,required,max=20"`
}

// Validate normalizes the discussion and checks it can be stored.
// Tags are trimmed, the category defaults to General and the approach is
// cleared unless the discussion is a solution, which must carry one.
func (d *Discussion) Validate() error {
	if d.Category == "" {
		d.Category = CategoryGeneral
	}
	for i := range d.Tags {
		d.Tags[i] = strings.TrimSpace(d.Tags[i])
	}
	if !d.IsSolution() {
		d.Approach = ""
	}

	err := validate.Struct(discussionRules{
		Title:    strings.TrimSpace(d.Title),
		Content:  strings.TrimSpace(d.Content),
		Category: d.Category,
		Approach: d.Approach,
		Tags:     d.Tags,
	})
	if err != nil {
		return translateValidationError(err)
	}

	if d.IsSolution() && d.Approach == "" {
		return ErrApproachRequired
	}
	return nil
}

// ApplyEdit overwrites the editable fields. Mentions are kept as they were
// extracted at creation.
func (d *Discussion) ApplyEdit(edit DiscussionEdit, now time.Time) error {
	next := *d
	next.Title = edit.Title
	next.Content = edit.Content
	if d.IsSolution() {
		next.Approach = edit.Approach
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*d = next
	return nil
}

// IsSolution reports whether the discussion is a solution to a question
func (d *Discussion) IsSolution() bool {
	return d.Category == CategorySolutions
}

func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%v: %w", err, ErrBadParamInput)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe)))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fieldName(fe), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fieldName(fe), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fieldName(fe)))
		}
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ErrBadParamInput)
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

// DiscussionRepository persists discussion aggregates. Every write replaces
// the aggregate as a whole.
type DiscussionRepository interface {
	// Fetch lists forum discussions (no question attached), at most ListLimit
	Fetch(ctx context.Context, opts ListOptions) ([]Discussion, error)

	// GetByID returns the full aggregate or ErrDiscussionNotFound
	GetByID(ctx context.Context, id int64) (Discussion, error)

	// FetchByQuestion lists the discussions of a question, newest first.
	// solutions selects the Solutions category, otherwise it is excluded.
	FetchByQuestion(ctx context.Context, questionID int64, solutions bool) ([]Discussion, error)

	// CountByQuestion counts the non-solution discussions of a question
	CountByQuestion(ctx context.Context, questionID int64) (int64, error)

	// Store creates a new discussion and backfills ID and timestamps
	Store(ctx context.Context, d *Discussion) error

	// Mutate loads the aggregate, applies fn and writes it back atomically.
	// Nothing is written when fn returns an error.
	Mutate(ctx context.Context, id int64, fn func(d *Discussion) error) (Discussion, error)

	// Delete removes the aggregate with its whole reply tree
	Delete(ctx context.Context, id int64) error

	// IncrementViews adds one view and returns the new count
	IncrementViews(ctx context.Context, id int64) (int64, error)

	// FetchIDs pages through every discussion id greater than cursor
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// DiscussionCache keeps recently read aggregates
type DiscussionCache interface {
	// GetDiscussion returns ErrCacheMiss when absent. expired reports whether
	// the entry outlived its logical TTL and should be rebuilt.
	GetDiscussion(ctx context.Context, id int64) (res Discussion, expired bool, err error)
	SetDiscussion(ctx context.Context, d *Discussion, ttl time.Duration) error
	DeleteDiscussion(ctx context.Context, id int64) error
}

// DiscussionUsecase is the business contract exposed to the transport layer
type DiscussionUsecase interface {
	Fetch(ctx context.Context, opts ListOptions) ([]Discussion, error)
	GetByID(ctx context.Context, id int64) (Discussion, error)
	FetchByQuestion(ctx context.Context, questionID int64) ([]Discussion, error)
	FetchSolutions(ctx context.Context, questionID int64) ([]Discussion, error)
	CountByQuestion(ctx context.Context, questionID int64) (int64, error)
	Store(ctx context.Context, d *Discussion) error
	AddReply(ctx context.Context, discussionID, authorID int64, content string, parent ReplyPath) (Discussion, error)
	React(ctx context.Context, discussionID, userID int64, kind ReactionKind, path ReplyPath) (Discussion, error)
	Edit(ctx context.Context, discussionID, requesterID int64, edit DiscussionEdit) (Discussion, error)
	Delete(ctx context.Context, discussionID, requesterID int64) error
	IncrementViews(ctx context.Context, discussionID int64) (int64, error)
	InitBloomFilter(ctx context.Context) error
}
