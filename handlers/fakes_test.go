package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"influencia-backend/database"
	"influencia-backend/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// doRequest exécute un handler avec un corps JSON (string brute ou valeur) et des vars mux
func doRequest(t *testing.T, h http.HandlerFunc, method, target string, body interface{}, vars map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// decodeBody décode une réponse JSON objet
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("réponse JSON invalide: %v (%s)", err, rr.Body.String())
	}
	return out
}

// dataOf renvoie le champ data de l'enveloppe de succès
func dataOf(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeBody(t, rr)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data absent: %s", rr.Body.String())
	}
	return data
}

// applyPatch reproduit un $set sur un document via un aller-retour BSON
func applyPatch(doc interface{}, fields bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	if raw, err = bson.Marshal(m); err != nil {
		return err
	}
	return bson.Unmarshal(raw, doc)
}

var fakeEpoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// fakeRegistrationStore est un RegistrationStore en mémoire
type fakeRegistrationStore struct {
	mu        sync.Mutex
	docs      map[primitive.ObjectID]*models.Registration
	calls     int
	createErr error
}

func newFakeRegistrationStore() *fakeRegistrationStore {
	return &fakeRegistrationStore{docs: map[primitive.ObjectID]*models.Registration{}}
}

func (f *fakeRegistrationStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRegistrationStore) emailTaken(email string, exclude primitive.ObjectID) bool {
	for id, doc := range f.docs {
		if !doc.Deleted && doc.Email == email && id != exclude {
			return true
		}
	}
	return false
}

func (f *fakeRegistrationStore) active(id primitive.ObjectID) *models.Registration {
	doc, ok := f.docs[id]
	if !ok || doc.Deleted {
		return nil
	}
	return doc
}

func copyReg(doc *models.Registration) *models.Registration {
	if doc == nil {
		return nil
	}
	cp := *doc
	return &cp
}

func (f *fakeRegistrationStore) Create(ctx context.Context, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.createErr != nil {
		return f.createErr
	}
	if f.emailTaken(reg.Email, primitive.NilObjectID) {
		return database.ErrDuplicate
	}
	reg.CreatedAt = fakeEpoch.Add(time.Duration(len(f.docs)) * time.Minute)
	reg.UpdatedAt = reg.CreatedAt
	f.docs[reg.ID] = copyReg(reg)
	return nil
}

func (f *fakeRegistrationStore) EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.emailTaken(email, exclude), nil
}

func (f *fakeRegistrationStore) FindAll(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	out := []models.Registration{}
	for _, doc := range f.docs {
		switch {
		case doc.Deleted:
			continue
		case filter.Attended != nil && doc.Attended != *filter.Attended:
			continue
		case filter.PaymentStatus != "" && doc.PaymentStatus != filter.PaymentStatus:
			continue
		case filter.TicketType != "" && doc.TicketType != filter.TicketType:
			continue
		case filter.From != nil && doc.CreatedAt.Before(*filter.From):
			continue
		case filter.To != nil && !doc.CreatedAt.Before(*filter.To):
			continue
		case filter.Search != "" && !strings.Contains(strings.ToLower(doc.FullName+" "+doc.Email), strings.ToLower(filter.Search)):
			continue
		}
		out = append(out, *doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRegistrationStore) FindByTicket(ctx context.Context, ticket string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	for id, doc := range f.docs {
		if !doc.Deleted && (doc.QRCode == ticket || id.Hex() == ticket) {
			return copyReg(doc), nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationStore) ToggleAttendance(ctx context.Context, id primitive.ObjectID) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	doc := f.active(id)
	if doc == nil {
		return nil, nil
	}
	doc.Attended = !doc.Attended
	if doc.Attended {
		now := time.Now()
		doc.CheckInTime = &now
	} else {
		doc.CheckInTime = nil
	}
	return copyReg(doc), nil
}

func (f *fakeRegistrationStore) CheckIn(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	doc := f.active(id)
	if doc == nil || doc.Attended {
		return nil, nil
	}
	doc.Attended = true
	doc.CheckInTime = &at
	return copyReg(doc), nil
}

func (f *fakeRegistrationStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	doc := f.active(id)
	if doc == nil {
		return nil, nil
	}
	if email, ok := fields["email"].(string); ok && f.emailTaken(email, id) {
		return nil, database.ErrDuplicate
	}
	if err := applyPatch(doc, fields); err != nil {
		return nil, err
	}
	return copyReg(doc), nil
}

func (f *fakeRegistrationStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	doc := f.active(id)
	if doc == nil {
		return false, nil
	}
	doc.Deleted = true
	return true, nil
}

// seed insère directement une inscription pour les tests
func (f *fakeRegistrationStore) seed(reg models.Registration) *models.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg.ID.IsZero() {
		reg.ID = primitive.NewObjectID()
	}
	if reg.QRCode == "" {
		reg.QRCode = "INFLUENCIA2025-" + strings.ToUpper(reg.ID.Hex())
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = fakeEpoch.Add(time.Duration(len(f.docs)) * time.Minute)
	}
	f.docs[reg.ID] = copyReg(&reg)
	return copyReg(&reg)
}

// fakePublisher enregistre les événements diffusés
type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *fakePublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// fakeVolunteerStore est un VolunteerStore en mémoire
type fakeVolunteerStore struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Volunteer
}

func newFakeVolunteerStore() *fakeVolunteerStore {
	return &fakeVolunteerStore{docs: map[primitive.ObjectID]*models.Volunteer{}}
}

func (f *fakeVolunteerStore) Create(ctx context.Context, v *models.Volunteer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = primitive.NewObjectID()
	v.CreatedAt = fakeEpoch.Add(time.Duration(len(f.docs)) * time.Minute)
	cp := *v
	f.docs[v.ID] = &cp
	return nil
}

func (f *fakeVolunteerStore) EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, doc := range f.docs {
		if !doc.Deleted && doc.Email == email && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVolunteerStore) FindAll(ctx context.Context, status string) ([]models.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Volunteer{}
	for _, doc := range f.docs {
		if !doc.Deleted && (status == "" || doc.Status == status) {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeVolunteerStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok || doc.Deleted {
		return nil, nil
	}
	if err := applyPatch(doc, fields); err != nil {
		return nil, err
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeVolunteerStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok || doc.Deleted {
		return false, nil
	}
	doc.Deleted = true
	return true, nil
}

// fakeCourseStore est un CourseStore en mémoire
type fakeCourseStore struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{docs: map[primitive.ObjectID]*models.Course{}}
}

func (f *fakeCourseStore) Create(ctx context.Context, c *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doc := range f.docs {
		if doc.Slug == c.Slug {
			return database.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = fakeEpoch.Add(time.Duration(len(f.docs)) * time.Minute)
	cp := *c
	f.docs[c.ID] = &cp
	return nil
}

func (f *fakeCourseStore) SlugExists(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, doc := range f.docs {
		if doc.Slug == slug && id != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseStore) visible(doc *models.Course, publishedOnly bool) bool {
	return !doc.Deleted && (!publishedOnly || doc.Status == models.CoursePublished)
}

func (f *fakeCourseStore) FindAll(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Course{}
	for _, doc := range f.docs {
		if f.visible(doc, publishedOnly) {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCourseStore) FindByIDOrSlug(ctx context.Context, idOrSlug string, publishedOnly bool) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, doc := range f.docs {
		if (doc.Slug == idOrSlug || id.Hex() == idOrSlug) && f.visible(doc, publishedOnly) {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok || doc.Deleted {
		return nil, nil
	}
	if err := applyPatch(doc, fields); err != nil {
		return nil, err
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeCourseStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok || doc.Deleted {
		return false, nil
	}
	doc.Deleted = true
	return true, nil
}

// fakeContactStore est un ContactStore en mémoire
type fakeContactStore struct {
	mu   sync.Mutex
	docs []*models.ContactMessage
}

func (f *fakeContactStore) Create(ctx context.Context, msg *models.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	cp := *msg
	f.docs = append(f.docs, &cp)
	return nil
}

func (f *fakeContactStore) FindAll(ctx context.Context) ([]models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ContactMessage{}
	for _, doc := range f.docs {
		if !doc.Deleted {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeContactStore) find(id primitive.ObjectID) *models.ContactMessage {
	for _, doc := range f.docs {
		if doc.ID == id && !doc.Deleted {
			return doc
		}
	}
	return nil
}

func (f *fakeContactStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.find(id)
	if doc == nil {
		return nil, nil
	}
	if err := applyPatch(doc, fields); err != nil {
		return nil, err
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeContactStore) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.find(id)
	if doc == nil {
		return false, nil
	}
	doc.Deleted = true
	return true, nil
}
