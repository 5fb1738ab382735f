package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/raffle-service/internal/domain"
	"github.com/spec-kit/raffle-service/internal/repository"
	"github.com/spec-kit/raffle-service/internal/session"
)

type purchaseKey struct {
	participantID int64
	ticketID      int
}

// fakeStore is the shared in-memory state behind the repository fakes.
// The mutex gives it the same linearizable behavior the row locks
// provide, so concurrent-decision tests exercise the service logic
// directly.
type fakeStore struct {
	mu sync.Mutex

	nextParticipantID int64
	nextPaymentID     int64
	nextActorID       int64

	participants map[int64]domain.Participant
	byHandle     map[string]int64
	payments     map[int64]domain.PaymentRecord
	purchases    map[purchaseKey]domain.PurchaseRecord
	actors       map[int64]domain.Actor
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		participants: make(map[int64]domain.Participant),
		byHandle:     make(map[string]int64),
		payments:     make(map[int64]domain.PaymentRecord),
		purchases:    make(map[purchaseKey]domain.PurchaseRecord),
		actors:       make(map[int64]domain.Actor),
	}
}

func (f *fakeStore) participantRepo() repository.ParticipantRepository { return &fakeParticipants{f} }
func (f *fakeStore) paymentRepo() repository.PaymentRepository         { return &fakePayments{f} }
func (f *fakeStore) purchaseRepo() repository.PurchaseRepository       { return &fakePurchases{f} }
func (f *fakeStore) actorRepo() repository.ActorRepository             { return &fakeActors{f} }

// addRegistered seeds a fully registered participant.
func (f *fakeStore) addRegistered(handle, fullName, phone, notifyAddress string) *domain.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextParticipantID++
	p := domain.Participant{
		ID:            f.nextParticipantID,
		Handle:        handle,
		FullName:      &fullName,
		Phone:         &phone,
		NotifyAddress: &notifyAddress,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.participants[p.ID] = p
	f.byHandle[handle] = p.ID
	return &p
}

// addPayment inserts a payment record directly, bypassing the pending
// uniqueness guard. Used to stage historical or duplicate states.
func (f *fakeStore) addPayment(participantID int64, ticketID int, status domain.PaymentStatus) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextPaymentID++
	f.payments[f.nextPaymentID] = domain.PaymentRecord{
		ID:            f.nextPaymentID,
		ParticipantID: participantID,
		TicketID:      ticketID,
		Status:        status,
		ProofRef:      "staged",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	return f.nextPaymentID
}

// addPurchase appends a ledger row directly.
func (f *fakeStore) addPurchase(participantID int64, ticketID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := purchaseKey{participantID, ticketID}
	f.purchases[key] = domain.PurchaseRecord{
		ParticipantID: participantID,
		TicketID:      ticketID,
		CreatedAt:     time.Now(),
	}
}

func (f *fakeStore) hasPurchase(participantID int64, ticketID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.purchases[purchaseKey{participantID, ticketID}]
	return ok
}

func (f *fakeStore) paymentByID(id int64) (domain.PaymentRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	return p, ok
}

type fakeParticipants struct{ *fakeStore }

func (f *fakeParticipants) UpsertContact(_ context.Context, handle, notifyAddress string) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.byHandle[handle]; ok {
		p := f.participants[id]
		if notifyAddress != "" {
			p.NotifyAddress = &notifyAddress
		}
		p.UpdatedAt = time.Now()
		f.participants[id] = p
		return &p, nil
	}
	f.nextParticipantID++
	p := domain.Participant{
		ID:        f.nextParticipantID,
		Handle:    handle,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if notifyAddress != "" {
		p.NotifyAddress = &notifyAddress
	}
	f.participants[p.ID] = p
	f.byHandle[handle] = p.ID
	return &p, nil
}

func (f *fakeParticipants) SaveProfile(_ context.Context, handle, fullName, phone string) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byHandle[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := f.participants[id]
	p.FullName = &fullName
	p.Phone = &phone
	p.UpdatedAt = time.Now()
	f.participants[id] = p
	return &p, nil
}

func (f *fakeParticipants) GetByHandle(_ context.Context, handle string) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byHandle[handle]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := f.participants[id]
	return &p, nil
}

func (f *fakeParticipants) GetByID(_ context.Context, id int64) (*domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeParticipants) ListRegistered(_ context.Context) ([]domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Participant
	for _, p := range f.participants {
		if p.Registered() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePayments struct{ *fakeStore }

func (f *fakePayments) CreatePending(_ context.Context, payment *domain.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payment.TicketID == domain.ReferralTicketID {
		for _, other := range f.payments {
			if other.ParticipantID == payment.ParticipantID &&
				other.TicketID == domain.ReferralTicketID &&
				other.Status == domain.PaymentStatusPending {
				return domain.ErrDuplicatePending
			}
		}
	}
	f.nextPaymentID++
	payment.ID = f.nextPaymentID
	payment.Status = domain.PaymentStatusPending
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	f.payments[payment.ID] = *payment
	return nil
}

func (f *fakePayments) GetByID(_ context.Context, id int64) (*domain.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakePayments) Confirm(_ context.Context, id int64) (*repository.ConfirmResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status != domain.PaymentStatusPending {
		return &repository.ConfirmResult{Outcome: domain.OutcomeAlreadyDecided, Payment: p}, nil
	}

	cleaned := 0
	if p.TicketID == domain.ReferralTicketID {
		for otherID, other := range f.payments {
			if otherID == id || other.ParticipantID != p.ParticipantID || other.TicketID != domain.ReferralTicketID {
				continue
			}
			if other.Status == domain.PaymentStatusConfirmed {
				return nil, domain.ErrDuplicateConfirmation
			}
			delete(f.payments, otherID)
			cleaned++
		}
	}

	p.Status = domain.PaymentStatusConfirmed
	p.UpdatedAt = time.Now()
	f.payments[id] = p

	key := purchaseKey{p.ParticipantID, p.TicketID}
	if _, exists := f.purchases[key]; !exists {
		f.purchases[key] = domain.PurchaseRecord{
			ParticipantID: p.ParticipantID,
			TicketID:      p.TicketID,
			CreatedAt:     time.Now(),
		}
	}
	return &repository.ConfirmResult{Outcome: domain.OutcomeConfirmed, Payment: p, CleanedUp: cleaned}, nil
}

func (f *fakePayments) Reject(_ context.Context, id int64, reason *string) (*repository.RejectResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status == domain.PaymentStatusFake {
		return &repository.RejectResult{Outcome: domain.OutcomeAlreadyDecided, Payment: p}, nil
	}

	prior := p.Status
	p.Status = domain.PaymentStatusFake
	p.Reason = reason
	p.UpdatedAt = time.Now()

	reversed := false
	if prior == domain.PaymentStatusConfirmed {
		key := purchaseKey{p.ParticipantID, p.TicketID}
		if _, exists := f.purchases[key]; exists {
			delete(f.purchases, key)
			reversed = true
		}
	}

	deleted := false
	if p.TicketID == domain.ReferralTicketID {
		delete(f.payments, id)
		deleted = true
	} else {
		f.payments[id] = p
	}
	return &repository.RejectResult{
		Outcome:          domain.OutcomeRejected,
		Payment:          p,
		ReversedPurchase: reversed,
		Deleted:          deleted,
	}, nil
}

func (f *fakePayments) ListPending(_ context.Context) ([]repository.PendingReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.PendingReview
	for _, p := range f.payments {
		if p.Status != domain.PaymentStatusPending {
			continue
		}
		out = append(out, repository.PendingReview{
			Payment:     p,
			Participant: f.participants[p.ParticipantID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Payment.ID < out[j].Payment.ID })
	return out, nil
}

func (f *fakePayments) CountPending(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, p := range f.payments {
		if p.Status == domain.PaymentStatusPending {
			count++
		}
	}
	return count, nil
}

func (f *fakePayments) ListByParticipant(_ context.Context, participantID int64) ([]domain.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PaymentRecord
	for _, p := range f.payments {
		if p.ParticipantID == participantID && p.Status != domain.PaymentStatusFake {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakePayments) HasPendingReferral(_ context.Context, participantID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ParticipantID == participantID &&
			p.TicketID == domain.ReferralTicketID &&
			p.Status == domain.PaymentStatusPending {
			return true, nil
		}
	}
	return false, nil
}

type fakePurchases struct{ *fakeStore }

func (f *fakePurchases) ListByParticipant(_ context.Context, participantID int64) ([]domain.PurchaseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PurchaseRecord
	for key, rec := range f.purchases {
		if key.participantID == participantID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out, nil
}

func (f *fakePurchases) HasReferral(_ context.Context, participantID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.purchases[purchaseKey{participantID, domain.ReferralTicketID}]
	return ok, nil
}

func (f *fakePurchases) CountPaid(_ context.Context, participantID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key := range f.purchases {
		if key.participantID == participantID && key.ticketID != domain.ReferralTicketID {
			count++
		}
	}
	return count, nil
}

func (f *fakePurchases) ListPaidParticipants(_ context.Context) ([]repository.PaidParticipant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticketsByParticipant := make(map[int64][]int)
	for key := range f.purchases {
		ticketsByParticipant[key.participantID] = append(ticketsByParticipant[key.participantID], key.ticketID)
	}
	var out []repository.PaidParticipant
	for id, tickets := range ticketsByParticipant {
		p := f.participants[id]
		if !p.Registered() {
			continue
		}
		sort.Ints(tickets)
		out = append(out, repository.PaidParticipant{Participant: p, TicketIDs: tickets})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Participant.ID < out[j].Participant.ID })
	return out, nil
}

func (f *fakePurchases) LotteryEntries(_ context.Context) ([]repository.LotteryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entriesByParticipant := make(map[int64]*repository.LotteryEntry)
	for key := range f.purchases {
		p := f.participants[key.participantID]
		if !p.Registered() {
			continue
		}
		entry, ok := entriesByParticipant[key.participantID]
		if !ok {
			entry = &repository.LotteryEntry{ParticipantID: p.ID, FullName: *p.FullName}
			entriesByParticipant[key.participantID] = entry
		}
		entry.TotalUnits += domain.TicketUnits(key.ticketID)
		if key.ticketID == domain.ReferralTicketID {
			entry.ReferralUnits++
		}
	}
	var out []repository.LotteryEntry
	for _, entry := range entriesByParticipant {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out, nil
}

type fakeActors struct{ *fakeStore }

func (f *fakeActors) Create(_ context.Context, actor *domain.Actor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextActorID++
	actor.ID = f.nextActorID
	actor.CreatedAt = time.Now()
	f.actors[actor.ID] = *actor
	return nil
}

func (f *fakeActors) GetByUsername(_ context.Context, username string) (*domain.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actors {
		if a.Username == username {
			actor := a
			return &actor, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeActors) GetByID(_ context.Context, id int64) (*domain.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (f *fakeActors) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.actors), nil
}

// notification captures one delivered message.
type notification struct {
	address string
	text    string
}

// fakeNotifier records notifications and can be made to fail for
// specific addresses.
type fakeNotifier struct {
	mu     sync.Mutex
	sent   []notification
	failed map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failed: make(map[string]bool)}
}

func (n *fakeNotifier) failFor(address string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed[address] = true
}

func (n *fakeNotifier) Notify(_ context.Context, address, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failed[address] {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, notification{address: address, text: text})
	return nil
}

func (n *fakeNotifier) messages() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification{}, n.sent...)
}

// fakeSessionStore keeps registration sessions in a map.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Registration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Registration)}
}

func (s *fakeSessionStore) Get(_ context.Context, handle string) (*session.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.sessions[handle]
	if !ok {
		return nil, session.ErrNoSession
	}
	return &reg, nil
}

func (s *fakeSessionStore) Put(_ context.Context, handle string, reg *session.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[handle] = *reg
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, handle)
	return nil
}
