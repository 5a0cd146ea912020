package board

import (
	"context"
	"sync"
	"time"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
	"github.com/consultafacil/portal-api/pkg/metrics"
)

// Buckets partitions a doctor's appointments by internal status. Every
// appointment lands in exactly one bucket.
type Buckets struct {
	Pending   []model.Appointment `json:"pending"`
	Accepted  []model.Appointment `json:"accepted"`
	Rejected  []model.Appointment `json:"rejected"`
	Completed []model.Appointment `json:"completed"`
}

// Counts are the bucket sizes driving the board's summary counters.
type Counts struct {
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
}

// board is the per-doctor state: the last fetched list and the upstream
// token to reuse for background refreshes. version counts local mutations
// so a refresh that raced a transition can detect it went stale.
type board struct {
	mu            sync.RWMutex
	doctorID      string
	appointments  []model.Appointment
	upstreamToken string
	lastRefresh   time.Time
	version       uint64
}

// Service maintains one status board per doctor. Transitions update the
// local copy optimistically; a concurrent refresh that fetched before the
// transition landed is discarded instead of overwriting it, and the next
// cycle reconciles with the upstream.
type Service struct {
	api     apiclient.AppointmentAPI
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu     sync.RWMutex
	boards map[string]*board
}

func NewService(api apiclient.AppointmentAPI, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		api:     api,
		logger:  log,
		metrics: m,
		boards:  make(map[string]*board),
	}
}

func (s *Service) boardFor(doctorID string) *board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[doctorID]
	if !ok {
		b = &board{doctorID: doctorID}
		s.boards[doctorID] = b
	}
	return b
}

// Forget drops a doctor's board, stopping background refreshes for it.
func (s *Service) Forget(doctorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, doctorID)
}

// DoctorIDs lists doctors with an active board.
func (s *Service) DoctorIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.boards))
	for id := range s.boards {
		ids = append(ids, id)
	}
	return ids
}

// Refresh fetches the doctor's full appointment list and replaces the board
// state, unless a transition landed while the fetch was in flight; a stale
// response is dropped and the next cycle reconciles. The caller's upstream
// token is remembered for background cycles.
func (s *Service) Refresh(ctx context.Context, doctorID string) error {
	b := s.boardFor(doctorID)

	b.mu.RLock()
	fetchedAt := b.version
	b.mu.RUnlock()

	appointments, err := s.api.ListForDoctor(ctx, doctorID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if token := apiclient.TokenFromContext(ctx); token != "" {
		b.upstreamToken = token
	}
	if b.version != fetchedAt {
		b.mu.Unlock()
		s.logger.Debug("discarding stale board refresh", "doctor_id", doctorID)
		return nil
	}
	b.appointments = appointments
	b.lastRefresh = time.Now()
	b.mu.Unlock()

	if s.metrics != nil {
		s.metrics.BoardRefreshes.Inc()
		counts := s.Counts(doctorID)
		s.metrics.BoardAppointments.WithLabelValues("pending").Set(float64(counts.Pending))
		s.metrics.BoardAppointments.WithLabelValues("accepted").Set(float64(counts.Accepted))
		s.metrics.BoardAppointments.WithLabelValues("rejected").Set(float64(counts.Rejected))
		s.metrics.BoardAppointments.WithLabelValues("completed").Set(float64(counts.Completed))
	}
	return nil
}

// RefreshAll re-fetches every active board, reusing each board's last known
// upstream token. Used by the background refresher.
func (s *Service) RefreshAll(ctx context.Context) {
	for _, doctorID := range s.DoctorIDs() {
		b := s.boardFor(doctorID)
		b.mu.RLock()
		token := b.upstreamToken
		b.mu.RUnlock()

		refreshCtx := ctx
		if token != "" {
			refreshCtx = apiclient.WithToken(ctx, token)
		}
		if err := s.Refresh(refreshCtx, doctorID); err != nil {
			s.logger.Error(err, "background board refresh failed", "doctor_id", doctorID)
		}
	}
}

// NeedsRefresh reports whether the board has never been fetched.
func (s *Service) NeedsRefresh(doctorID string) bool {
	b := s.boardFor(doctorID)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastRefresh.IsZero()
}

// LastRefresh returns the time of the board's last successful fetch.
func (s *Service) LastRefresh(doctorID string) time.Time {
	b := s.boardFor(doctorID)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastRefresh
}

// Buckets partitions the board via the status vocabulary mapper.
func (s *Service) Buckets(doctorID string) *Buckets {
	b := s.boardFor(doctorID)
	b.mu.RLock()
	defer b.mu.RUnlock()

	buckets := &Buckets{
		Pending:   []model.Appointment{},
		Accepted:  []model.Appointment{},
		Rejected:  []model.Appointment{},
		Completed: []model.Appointment{},
	}
	for _, apt := range b.appointments {
		switch apt.InternalStatus() {
		case model.StatusAccepted:
			buckets.Accepted = append(buckets.Accepted, apt)
		case model.StatusRejected:
			buckets.Rejected = append(buckets.Rejected, apt)
		case model.StatusCompleted:
			buckets.Completed = append(buckets.Completed, apt)
		default:
			buckets.Pending = append(buckets.Pending, apt)
		}
	}
	return buckets
}

func (s *Service) Counts(doctorID string) Counts {
	buckets := s.Buckets(doctorID)
	return Counts{
		Pending:   len(buckets.Pending),
		Accepted:  len(buckets.Accepted),
		Rejected:  len(buckets.Rejected),
		Completed: len(buckets.Completed),
	}
}

// Accept confirms a pending appointment.
func (s *Service) Accept(ctx context.Context, doctorID, appointmentID string) error {
	return s.transition(ctx, doctorID, appointmentID, model.StatusAccepted)
}

// Reject cancels a pending appointment.
func (s *Service) Reject(ctx context.Context, doctorID, appointmentID string) error {
	return s.transition(ctx, doctorID, appointmentID, model.StatusRejected)
}

// Complete marks an accepted appointment as carried out.
func (s *Service) Complete(ctx context.Context, doctorID, appointmentID string) error {
	return s.transition(ctx, doctorID, appointmentID, model.StatusCompleted)
}

// allowedTransitions is the doctor-observable state machine. Rejected and
// completed are terminal; pending cannot jump straight to completed even
// though the upstream would accept the write.
var allowedTransitions = map[model.Status][]model.Status{
	model.StatusPending:  {model.StatusAccepted, model.StatusRejected},
	model.StatusAccepted: {model.StatusCompleted},
}

func transitionAllowed(from, to model.Status) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// transition issues one status write and, only on success, updates the
// local copy so bucket counts change without a re-fetch.
func (s *Service) transition(ctx context.Context, doctorID, appointmentID string, target model.Status) error {
	b := s.boardFor(doctorID)

	b.mu.RLock()
	var current *model.Appointment
	for i := range b.appointments {
		if b.appointments[i].ID == appointmentID {
			current = &b.appointments[i]
			break
		}
	}
	if current == nil {
		b.mu.RUnlock()
		return errors.NewNotFound("appointment", nil)
	}
	from := current.InternalStatus()
	b.mu.RUnlock()

	if !transitionAllowed(from, target) {
		return errors.NewValidation("transition not allowed from " + string(from) + " to " + string(target))
	}

	if err := s.api.UpdateStatus(ctx, appointmentID, target.Backend()); err != nil {
		// Local record stays untouched on failure.
		return err
	}

	b.mu.Lock()
	for i := range b.appointments {
		if b.appointments[i].ID == appointmentID {
			b.appointments[i].Status = target.Backend()
			break
		}
	}
	b.version++
	b.mu.Unlock()

	if s.metrics != nil {
		s.metrics.BoardTransitions.WithLabelValues(string(target)).Inc()
	}
	s.logger.Info("appointment status updated",
		"appointment_id", appointmentID, "doctor_id", doctorID, "status", target.Backend())
	return nil
}
