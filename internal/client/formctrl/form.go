// Package formctrl implements the create/edit form pattern shared by the
// admin entity screens: draft state, a client-side validation gate, the
// create-vs-update branch keyed by the entity being edited, and field-level
// error mapping from backend 422 responses.
package formctrl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jobdeck/jobdeck-cli/internal/client/api"
	"github.com/jobdeck/jobdeck-cli/internal/logging"
)

// Mode is the form's lifecycle mode.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

var (
	// ErrNotOpen is returned by Submit on a closed form.
	ErrNotOpen = errors.New("formctrl: form not open")
	// ErrValidation is returned when the client-side gate rejects the
	// draft; no network call was made and the draft is preserved.
	ErrValidation = errors.New("formctrl: validation failed")
	// ErrFileType rejects a staged file outside the allowed image set.
	ErrFileType = errors.New("formctrl: unsupported file type")
	// ErrFileTooLarge rejects a staged file over the size ceiling.
	ErrFileTooLarge = errors.New("formctrl: file exceeds 2MB limit")
)

// MaxFileSize is the client-side ceiling for staged uploads.
const MaxFileSize = 2 << 20

var allowedFileTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Config parameterises a Form for one entity type.
type Config[T any] struct {
	// Defaults produces an empty draft for create mode.
	Defaults func() T
	// Validate adds rules beyond the draft's struct tags. Returned
	// field→message pairs fail the submit gate.
	Validate func(draft T) map[string]string
	// Create and Update perform the JSON submissions.
	Create func(ctx context.Context, draft T) error
	Update func(ctx context.Context, id string, draft T) error
	// CreateWithFile and UpdateWithFile are the multipart variants used
	// when a file is staged. Optional; leaving them nil means the entity
	// has no file-bearing fields.
	CreateWithFile func(ctx context.Context, draft T, file api.UploadFile) error
	UpdateWithFile func(ctx context.Context, id string, draft T, file api.UploadFile) error
	// OnSaved runs after a successful submit, before the form closes.
	// Owners hook the list reload here.
	OnSaved func()
	Log     logging.Logger
}

// Snapshot is a point-in-time copy of the form state for rendering.
type Snapshot[T any] struct {
	Mode        Mode
	EditingID   string
	Draft       T
	FieldErrors map[string][]string
	Err         string
	Submitting  bool
	HasFile     bool
}

// Form drives one create/edit modal.
type Form[T any] struct {
	cfg      Config[T]
	validate *validator.Validate

	mu         sync.Mutex
	mode       Mode
	editID     string
	draft      T
	file       *api.UploadFile
	fieldErrs  map[string][]string
	errMsg     string
	submitting bool
}

func New[T any](cfg Config[T]) *Form[T] {
	if cfg.Log == nil {
		cfg.Log = logging.Nop()
	}
	return &Form[T]{cfg: cfg, validate: validator.New()}
}

// OpenCreate resets the draft to type defaults and enters create mode.
func (f *Form[T]) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeCreate
	f.editID = ""
	f.draft = f.cfg.Defaults()
	f.reset()
}

// OpenEdit copies the entity's editable fields into the draft and enters
// edit mode for its id.
func (f *Form[T]) OpenEdit(id string, entity T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeEdit
	f.editID = id
	f.draft = entity
	f.reset()
}

// Set applies a pure draft mutation. It never touches network state.
func (f *Form[T]) Set(mutate func(draft *T)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeClosed {
		return
	}
	mutate(&f.draft)
}

// StageFile validates and stages a file for the next submit, switching
// that one request to multipart encoding. Type and size are checked here
// so an oversized or non-image upload never costs a round trip.
func (f *Form[T]) StageFile(file api.UploadFile) error {
	if !allowedFileTypes[file.ContentType] {
		return fmt.Errorf("%w: %s", ErrFileType, file.ContentType)
	}
	if len(file.Data) > MaxFileSize {
		return ErrFileTooLarge
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = &file
	return nil
}

// ClearFile unstages any staged file.
func (f *Form[T]) ClearFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.file = nil
}

// Close discards the draft.
func (f *Form[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeClosed
	f.editID = ""
	var zero T
	f.draft = zero
	f.reset()
}

// reset clears transient submit state — the staged file, field errors,
// error message, and in-flight flag. Callers must hold f.mu.
func (f *Form[T]) reset() {
	f.file = nil
	f.fieldErrs = nil
	f.errMsg = ""
	f.submitting = false
}

// Snapshot returns a copy of the current state.
func (f *Form[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	fe := make(map[string][]string, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		fe[k] = append([]string(nil), v...)
	}
	return Snapshot[T]{
		Mode:        f.mode,
		EditingID:   f.editID,
		Draft:       f.draft,
		FieldErrors: fe,
		Err:         f.errMsg,
		Submitting:  f.submitting,
		HasFile:     f.file != nil,
	}
}

// Submit runs the validation gate and, if it passes, the create or update
// call for the current mode. On any failure the form stays open with the
// draft intact; on success OnSaved fires and the form closes.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.mode == ModeClosed {
		f.mu.Unlock()
		return ErrNotOpen
	}
	if f.submitting {
		// the triggering control is disabled while in flight; a second
		// call is a double-click and must not produce a second request
		f.mu.Unlock()
		return nil
	}
	mode := f.mode
	id := f.editID
	draft := f.draft
	file := f.file
	f.submitting = true
	f.fieldErrs = nil
	f.errMsg = ""
	f.mu.Unlock()

	if errs := f.gate(draft); len(errs) > 0 {
		f.mu.Lock()
		f.fieldErrs = errs
		f.submitting = false
		f.mu.Unlock()
		return ErrValidation
	}

	err := f.dispatch(ctx, mode, id, draft, file)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		if fe := api.FieldErrors(err); len(fe) > 0 {
			f.fieldErrs = fe
		}
		f.errMsg = errMessage(err)
		f.mu.Unlock()
		return err
	}
	f.mode = ModeClosed
	f.editID = ""
	var zero T
	f.draft = zero
	f.file = nil
	f.mu.Unlock()

	if f.cfg.OnSaved != nil {
		f.cfg.OnSaved()
	}
	return nil
}

func (f *Form[T]) dispatch(ctx context.Context, mode Mode, id string, draft T, file *api.UploadFile) error {
	switch {
	case file != nil && mode == ModeCreate && f.cfg.CreateWithFile != nil:
		return f.cfg.CreateWithFile(ctx, draft, *file)
	case file != nil && mode == ModeEdit && f.cfg.UpdateWithFile != nil:
		return f.cfg.UpdateWithFile(ctx, id, draft, *file)
	case mode == ModeCreate:
		return f.cfg.Create(ctx, draft)
	default:
		return f.cfg.Update(ctx, id, draft)
	}
}

// gate merges struct-tag validation with the config's extra rules.
func (f *Form[T]) gate(draft T) map[string][]string {
	errs := map[string][]string{}

	if err := f.validate.Struct(draft); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				field := strings.ToLower(fe.Field())
				errs[field] = append(errs[field], fieldMessage(fe))
			}
		}
	}
	if f.cfg.Validate != nil {
		for field, msg := range f.cfg.Validate(draft) {
			errs[field] = append(errs[field], msg)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// fieldMessage converts a single tag failure into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if field == "locations" {
		return "Please select at least one location"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hexcolor":
		return field + " must be a hex color"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func errMessage(err error) string {
	var ae *api.Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return err.Error()
}
