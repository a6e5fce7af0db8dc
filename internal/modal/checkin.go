package modal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"backend-trailhub/internal/apiclient"
	"backend-trailhub/internal/apperr"
	"backend-trailhub/internal/pin"
	"backend-trailhub/internal/store"
	"backend-trailhub/internal/upload"
)

type CheckInState int

const (
	CheckInAwaitingScan CheckInState = iota
	CheckInAwaitingPhoto
	CheckInReady
	CheckInSubmitting
	CheckInDone
	CheckInFailed
)

func (s CheckInState) String() string {
	switch s {
	case CheckInAwaitingPhoto:
		return "awaiting-photo"
	case CheckInReady:
		return "ready"
	case CheckInSubmitting:
		return "submitting"
	case CheckInDone:
		return "done"
	case CheckInFailed:
		return "failed"
	default:
		return "awaiting-scan"
	}
}

type CheckInAPI interface {
	ReserveUpload(ctx context.Context, req upload.Request) (upload.Upload, error)
	CheckIn(ctx context.Context, pinID string, req pin.CheckInRequest) (pin.CheckInResult, error)
}

// Completion is the outcome of a successful check-in. AlreadyCompleted is
// set when the server reported the pin as checked in before, typically by
// an earlier attempt whose response was lost; Result is empty then.
type Completion struct {
	PinID            string
	PhotoURL         string
	Result           pin.CheckInResult
	AlreadyCompleted bool
}

// CheckIn needs a scan acknowledgement and a photo, in either order, before
// it can be submitted.
type CheckIn struct {
	api     CheckInAPI
	pin     store.Pin
	userID  string
	timeout time.Duration

	// readCtx is cancelled by Close and abandons an in-progress photo read.
	readCtx    context.Context
	cancelRead context.CancelFunc

	mu      sync.Mutex
	state   CheckInState
	scanned bool
	photo   *Photo
	// upload is reserved once per photo and reused by retries.
	upload *upload.Upload
	err    error
	closed bool
	result Completion
}

func NewCheckIn(api CheckInAPI, p store.Pin, userID string, timeout time.Duration) (*CheckIn, error) {
	if !p.IsTrail() {
		return nil, ErrNotTrail
	}
	readCtx, cancel := context.WithCancel(context.Background())
	return &CheckIn{
		api:        api,
		pin:        p,
		userID:     userID,
		timeout:    orDefault(timeout),
		readCtx:    readCtx,
		cancelRead: cancel,
	}, nil
}

// AcknowledgeScan records the simulated QR scan.
func (m *CheckIn) AcknowledgeScan() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableLocked(); err != nil {
		return err
	}
	m.scanned = true
	m.state = m.inputStateLocked()
	return nil
}

func (m *CheckIn) SetPhoto(p Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableLocked(); err != nil {
		return err
	}
	m.photo = &p
	m.upload = nil
	m.state = m.inputStateLocked()
	return nil
}

// LoadPhoto reads a photo from src. Closing the modal abandons the read.
func (m *CheckIn) LoadPhoto(src PhotoSource) error {
	p, err := src.Read(m.readCtx)
	if m.readCtx.Err() != nil {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	return m.SetPhoto(p)
}

// Submit reserves the photo upload and checks the pin in. It blocks until
// the server answers or the timeout passes.
func (m *CheckIn) Submit(ctx context.Context) (Completion, error) {
	m.mu.Lock()
	if err := m.editableLocked(); err != nil {
		m.mu.Unlock()
		return Completion{}, err
	}
	if m.state != CheckInReady && m.state != CheckInFailed {
		m.mu.Unlock()
		return Completion{}, ErrNotReady
	}
	m.state = CheckInSubmitting
	photo := *m.photo
	reserved := m.upload
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		res pin.CheckInResult
		err error
	)
	if reserved == nil {
		var up upload.Upload
		up, err = m.api.ReserveUpload(ctx, upload.Request{UserID: m.userID, FileName: photo.FileName, PinID: m.pin.ID})
		if err == nil {
			reserved = &up
		}
	}
	if err == nil {
		res, err = m.api.CheckIn(ctx, m.pin.ID, pin.CheckInRequest{UserID: m.userID, PhotoURL: reserved.URL})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if reserved != nil && m.photo != nil && m.photo.FileName == photo.FileName {
		m.upload = reserved
	}
	if m.closed {
		return Completion{}, ErrClosed
	}
	already := alreadyCheckedIn(err)
	if err != nil && !already {
		m.state = CheckInFailed
		m.err = err
		return Completion{}, err
	}
	m.state = CheckInDone
	m.err = nil
	m.result = Completion{PinID: m.pin.ID, PhotoURL: reserved.URL, Result: res, AlreadyCompleted: already}
	return m.result, nil
}

// Close dismisses the modal. A dispatched submission keeps running but its
// result is dropped.
func (m *CheckIn) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cancelRead()
}

func (m *CheckIn) State() CheckInState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err is the last submission failure, cleared by a successful submit.
func (m *CheckIn) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *CheckIn) CanSubmit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && (m.state == CheckInReady || m.state == CheckInFailed)
}

func (m *CheckIn) Photo() (Photo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.photo == nil {
		return Photo{}, false
	}
	return *m.photo, true
}

// alreadyCheckedIn reports a conflict answer: the pin is already completed
// for this user.
func alreadyCheckedIn(err error) bool {
	return apiclient.IsStatus(err, http.StatusConflict) || apperr.Is(err, apperr.KindConflict)
}

func (m *CheckIn) editableLocked() error {
	switch {
	case m.closed:
		return ErrClosed
	case m.state == CheckInSubmitting:
		return ErrBusy
	case m.state == CheckInDone:
		return ErrFinished
	}
	return nil
}

func (m *CheckIn) inputStateLocked() CheckInState {
	switch {
	case !m.scanned:
		return CheckInAwaitingScan
	case m.photo == nil:
		return CheckInAwaitingPhoto
	default:
		return CheckInReady
	}
}
