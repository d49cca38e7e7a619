package services

import (
	"fmt"
	"sync"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/database"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/pkg/notify"
)

// In-memory fakes for the store interfaces. Each fake keeps just enough state
// for the behavior under test and supports error injection per method.

type fakeTripStore struct {
	trips      map[int64]*models.Trip
	activeID   int64 // 0 means no active trip
	nextID     int64
	recalcWith []bool // recalc flags passed to Update, in call order
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: map[int64]*models.Trip{}, nextID: 1}
}

func (f *fakeTripStore) add(trip *models.Trip) *models.Trip {
	if trip.ID == 0 {
		trip.ID = f.nextID
		f.nextID++
	}
	f.trips[trip.ID] = trip
	return trip
}

func (f *fakeTripStore) Create(trip *models.Trip) error {
	f.add(trip)
	return nil
}

func (f *fakeTripStore) GetByID(tripID int64) (*models.Trip, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, apperrors.NotFound("trip not found")
	}
	copied := *trip
	copied.IsActive = f.activeID == tripID
	return &copied, nil
}

func (f *fakeTripStore) List() ([]models.Trip, error) {
	out := []models.Trip{}
	for _, trip := range f.trips {
		out = append(out, *trip)
	}
	return out, nil
}

func (f *fakeTripStore) Update(trip *models.Trip, recalcBalances bool) error {
	if _, ok := f.trips[trip.ID]; !ok {
		return apperrors.NotFound("trip not found")
	}
	copied := *trip
	f.trips[trip.ID] = &copied
	f.recalcWith = append(f.recalcWith, recalcBalances)
	return nil
}

func (f *fakeTripStore) Delete(tripID int64) error {
	if _, ok := f.trips[tripID]; !ok {
		return apperrors.NotFound("trip not found")
	}
	delete(f.trips, tripID)
	if f.activeID == tripID {
		f.activeID = 0
	}
	return nil
}

func (f *fakeTripStore) Activate(tripID int64) error {
	if _, ok := f.trips[tripID]; !ok {
		return apperrors.NotFound("trip not found")
	}
	f.activeID = tripID
	return nil
}

func (f *fakeTripStore) GetActiveTripID() (int64, error) {
	if f.activeID == 0 {
		return 0, apperrors.NoActiveTrip("no trip is currently active")
	}
	return f.activeID, nil
}

func (f *fakeTripStore) GetActive() (*models.Trip, error) {
	tripID, err := f.GetActiveTripID()
	if err != nil {
		return nil, err
	}
	return f.GetByID(tripID)
}

type fakeRiderStore struct {
	riders            map[int64]*models.Rider
	paymentCounts     map[int64]int
	nextID            int64
	created           []*models.Rider
	deleted           []int64
	deletedCompletely []int64
	associations      map[int64]*models.TripRider // keyed by rider id
}

func newFakeRiderStore() *fakeRiderStore {
	return &fakeRiderStore{
		riders:        map[int64]*models.Rider{},
		paymentCounts: map[int64]int{},
		associations:  map[int64]*models.TripRider{},
		nextID:        1,
	}
}

func (f *fakeRiderStore) add(rider *models.Rider) *models.Rider {
	if rider.ID == 0 {
		rider.ID = f.nextID
		f.nextID++
	}
	f.riders[rider.ID] = rider
	return rider
}

func (f *fakeRiderStore) CreateWithAssociation(rider *models.Rider, tripID int64, seats int, balance float64,
	contacts []models.EmergencyContact, medicalNotes *string) (*models.TripRider, error) {
	f.add(rider)
	f.created = append(f.created, rider)
	tr := &models.TripRider{TripID: tripID, RiderID: rider.ID, Seats: seats, Balance: balance}
	f.associations[rider.ID] = tr
	return tr, nil
}

func (f *fakeRiderStore) GetByID(riderID int64) (*models.Rider, error) {
	rider, ok := f.riders[riderID]
	if !ok {
		return nil, apperrors.NotFound("rider not found")
	}
	copied := *rider
	return &copied, nil
}

func (f *fakeRiderStore) List() ([]models.Rider, error) {
	out := []models.Rider{}
	for _, rider := range f.riders {
		out = append(out, *rider)
	}
	return out, nil
}

func (f *fakeRiderStore) Update(rider *models.Rider) error {
	if _, ok := f.riders[rider.ID]; !ok {
		return apperrors.NotFound("rider not found")
	}
	copied := *rider
	f.riders[rider.ID] = &copied
	return nil
}

func (f *fakeRiderStore) CountPayments(riderID int64) (int, error) {
	return f.paymentCounts[riderID], nil
}

func (f *fakeRiderStore) Delete(riderID int64) error {
	if _, ok := f.riders[riderID]; !ok {
		return apperrors.NotFound("rider not found")
	}
	delete(f.riders, riderID)
	f.deleted = append(f.deleted, riderID)
	return nil
}

func (f *fakeRiderStore) DeleteCompletely(riderID int64) error {
	if _, ok := f.riders[riderID]; !ok {
		return apperrors.NotFound("rider not found")
	}
	delete(f.riders, riderID)
	f.deletedCompletely = append(f.deletedCompletely, riderID)
	return nil
}

type tripRiderKey struct {
	tripID, riderID int64
}

type fakeTripRiderStore struct {
	associations map[tripRiderKey]*models.TripRider
	rosterRows   []database.RosterRow
	upserts      []models.TripRiderUpsert
}

func newFakeTripRiderStore() *fakeTripRiderStore {
	return &fakeTripRiderStore{associations: map[tripRiderKey]*models.TripRider{}}
}

func (f *fakeTripRiderStore) Create(tr *models.TripRider) error {
	key := tripRiderKey{tr.TripID, tr.RiderID}
	if _, ok := f.associations[key]; ok {
		return apperrors.Conflict("rider already on trip")
	}
	copied := *tr
	f.associations[key] = &copied
	return nil
}

func (f *fakeTripRiderStore) Get(tripID, riderID int64) (*models.TripRider, error) {
	tr, ok := f.associations[tripRiderKey{tripID, riderID}]
	if !ok {
		return nil, apperrors.NotFound("rider is not on this trip")
	}
	copied := *tr
	return &copied, nil
}

func (f *fakeTripRiderStore) Exists(tripID, riderID int64) (bool, error) {
	_, ok := f.associations[tripRiderKey{tripID, riderID}]
	return ok, nil
}

func (f *fakeTripRiderStore) Upsert(tripID, riderID int64, fields models.TripRiderUpsert, costPerSeat float64) (*models.TripRider, error) {
	f.upserts = append(f.upserts, fields)
	key := tripRiderKey{tripID, riderID}
	tr, ok := f.associations[key]
	if !ok {
		tr = &models.TripRider{TripID: tripID, RiderID: riderID, Seats: 1, Balance: costPerSeat}
		f.associations[key] = tr
	}
	if fields.Seats != nil {
		tr.Seats = *fields.Seats
		if fields.Balance == nil {
			tr.Balance = float64(tr.Seats) * costPerSeat
		}
	}
	if fields.Balance != nil {
		tr.Balance = *fields.Balance
	}
	if fields.InstructionsSent != nil {
		tr.InstructionsSent = *fields.InstructionsSent
	}
	copied := *tr
	return &copied, nil
}

func (f *fakeTripRiderStore) Delete(tripID, riderID int64) error {
	key := tripRiderKey{tripID, riderID}
	if _, ok := f.associations[key]; !ok {
		return apperrors.NotFound("rider is not on this trip")
	}
	delete(f.associations, key)
	return nil
}

func (f *fakeTripRiderStore) ListRoster(tripID int64) ([]database.RosterRow, error) {
	return f.rosterRows, nil
}

type fakePaymentStore struct {
	payments  []models.Payment
	nextID    int64
	createErr error
	sumErr    error
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{nextID: 1}
}

func (f *fakePaymentStore) Create(payment *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	payment.ID = f.nextID
	f.nextID++
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentStore) GetByID(paymentID int64) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.ID == paymentID {
			copied := p
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("payment not found")
}

func (f *fakePaymentStore) Update(payment *models.Payment) error {
	for i, p := range f.payments {
		if p.ID == payment.ID {
			f.payments[i] = *payment
			return nil
		}
	}
	return apperrors.NotFound("payment not found")
}

func (f *fakePaymentStore) Delete(paymentID int64) error {
	for i, p := range f.payments {
		if p.ID == paymentID {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("payment not found")
}

func (f *fakePaymentStore) ListForRiderAndTrip(riderID, tripID int64) ([]models.Payment, error) {
	out := []models.Payment{}
	for _, p := range f.payments {
		if p.RiderID == riderID && p.TripID == tripID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) SumForRiderAndTrip(riderID, tripID int64) (float64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	var total float64
	for _, p := range f.payments {
		if p.RiderID == riderID && p.TripID == tripID {
			total += p.Amount
		}
	}
	return total, nil
}

type fakeContactStore struct {
	contacts map[int64][]models.EmergencyContact
	notes    map[int64]models.MedicalNote
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{
		contacts: map[int64][]models.EmergencyContact{},
		notes:    map[int64]models.MedicalNote{},
	}
}

func (f *fakeContactStore) ReplaceContacts(riderID int64, contacts []models.EmergencyContact) error {
	f.contacts[riderID] = contacts
	return nil
}

func (f *fakeContactStore) ListContacts(riderID int64) ([]models.EmergencyContact, error) {
	return f.contacts[riderID], nil
}

func (f *fakeContactStore) ListContactsByRiders(riderIDs []int64) (map[int64][]models.EmergencyContact, error) {
	out := map[int64][]models.EmergencyContact{}
	for _, id := range riderIDs {
		if cs, ok := f.contacts[id]; ok {
			out[id] = cs
		}
	}
	return out, nil
}

func (f *fakeContactStore) UpsertMedicalNote(riderID int64, notes string) error {
	if notes == "" {
		delete(f.notes, riderID)
		return nil
	}
	f.notes[riderID] = models.MedicalNote{RiderID: riderID, Notes: notes}
	return nil
}

func (f *fakeContactStore) ListMedicalNotesByRiders(riderIDs []int64) (map[int64]models.MedicalNote, error) {
	out := map[int64]models.MedicalNote{}
	for _, id := range riderIDs {
		if n, ok := f.notes[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type fakeBalanceStore struct {
	rows []models.RiderBalance
}

func (f *fakeBalanceStore) ListRiderBalances(tripID int64) ([]models.RiderBalance, error) {
	return f.rows, nil
}

type fakeAdminStore struct {
	users map[string]*models.AdminUser
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{users: map[string]*models.AdminUser{}}
}

func (f *fakeAdminStore) GetByUsername(username string) (*models.AdminUser, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, apperrors.NotFound("admin user not found")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeAdminStore) Create(user *models.AdminUser) error {
	if _, ok := f.users[user.Username]; ok {
		return apperrors.Conflict("username already taken")
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Username] = user
	return nil
}

// fakeNotifier records receipts and signals each delivery attempt so tests
// can wait for the asynchronous dispatch.
type fakeNotifier struct {
	mu       sync.Mutex
	receipts []notify.Receipt
	err      error
	done     chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (f *fakeNotifier) SendReceipt(receipt notify.Receipt) error {
	f.mu.Lock()
	f.receipts = append(f.receipts, receipt)
	err := f.err
	f.mu.Unlock()
	f.done <- struct{}{}
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

func (f *fakeNotifier) sent() []notify.Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Receipt, len(f.receipts))
	copy(out, f.receipts)
	return out
}
