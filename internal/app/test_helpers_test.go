package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ctxutil"
	"github.com/example/kin/internal/ports/secondary"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeState is everything the fake store holds. It is copied wholesale to
// emulate transaction and savepoint rollback.
type fakeState struct {
	members   map[int64]secondary.MemberRecord
	relations map[int64]secondary.RelationRecord
	mirrors   []secondary.MirrorRecord
	logs      []secondary.EventLogRecord
	nextID    int64
}

func (s fakeState) clone() fakeState {
	c := fakeState{
		members:   make(map[int64]secondary.MemberRecord, len(s.members)),
		relations: make(map[int64]secondary.RelationRecord, len(s.relations)),
		mirrors:   append([]secondary.MirrorRecord(nil), s.mirrors...),
		logs:      append([]secondary.EventLogRecord(nil), s.logs...),
		nextID:    s.nextID,
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.relations {
		c.relations[k] = v
	}
	return c
}

// fakeStore implements secondary.Transactor in memory.
type fakeStore struct {
	state fakeState

	// failOn makes the named operation return a storage failure.
	failOn string

	txCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: fakeState{
		members:   map[int64]secondary.MemberRecord{},
		relations: map[int64]secondary.RelationRecord{},
	}}
}

func (f *fakeStore) id() int64 {
	f.state.nextID++
	return f.state.nextID
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return outcome.Storage(fmt.Errorf("injected"), "%s failed", op)
	}
	return nil
}

func (f *fakeStore) Members() secondary.MemberRepository     { return fakeMembers{f} }
func (f *fakeStore) Relations() secondary.RelationRepository { return fakeRelations{f} }
func (f *fakeStore) Mirrors() secondary.MirrorRepository     { return fakeMirrors{f} }
func (f *fakeStore) Log() secondary.LogWriter                { return fakeLog{f} }

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx secondary.Store) error) error {
	f.txCount++
	snap := f.state.clone()
	if err := fn(ctx, f); err != nil {
		f.state = snap
		return err
	}
	return nil
}

func (f *fakeStore) Savepoint(ctx context.Context, name string, fn func() error) error {
	snap := f.state.clone()
	if err := fn(); err != nil {
		f.state = snap
		return err
	}
	return nil
}

// addMember seeds a member directly and returns its ID.
func (f *fakeStore) addMember(m secondary.MemberRecord) int64 {
	m.ID = f.id()
	if m.Born == "" {
		m.Born = "0000-01-01"
	}
	f.state.members[m.ID] = m
	return m.ID
}

// addRelation seeds a relation directly and returns its ID.
func (f *fakeStore) addRelation(memberID, partnerID int64, t relation.Type, join, end string) int64 {
	r := secondary.RelationRecord{ID: f.id(), MemberID: memberID, PartnerID: partnerID, Relation: string(t), JoinDate: join, EndDate: end}
	f.state.relations[r.ID] = r
	return r.ID
}

func (f *fakeStore) member(id int64) secondary.MemberRecord { return f.state.members[id] }

func (f *fakeStore) relation(id int64) secondary.RelationRecord { return f.state.relations[id] }

func (f *fakeStore) ongoing(memberID, partnerID int64) []secondary.RelationRecord {
	var out []secondary.RelationRecord
	for _, r := range f.sortedRelations() {
		if r.EndDate != "" {
			continue
		}
		if (r.MemberID == memberID && r.PartnerID == partnerID) || (r.MemberID == partnerID && r.PartnerID == memberID) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) sortedRelations() []secondary.RelationRecord {
	out := make([]secondary.RelationRecord, 0, len(f.state.relations))
	for _, r := range f.state.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) sortedMembers() []secondary.MemberRecord {
	out := make([]secondary.MemberRecord, 0, len(f.state.members))
	for _, m := range f.state.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.GenOrder != b.GenOrder {
			return a.GenOrder < b.GenOrder
		}
		if a.Born != b.Born {
			return a.Born < b.Born
		}
		return a.ID < b.ID
	})
	return out
}

type fakeMembers struct{ f *fakeStore }

func (r fakeMembers) Create(ctx context.Context, m *secondary.MemberRecord) (int64, error) {
	if err := r.f.fail("members.create"); err != nil {
		return 0, err
	}
	for _, parent := range []int64{m.DadID, m.MomID} {
		if _, ok := r.f.state.members[parent]; parent != 0 && !ok {
			return 0, outcome.Validation("parent %d does not exist", parent)
		}
	}
	return r.f.addMember(*m), nil
}

func (r fakeMembers) GetByID(ctx context.Context, id int64) (*secondary.MemberRecord, error) {
	m, ok := r.f.state.members[id]
	if !ok {
		return nil, outcome.NotFound("member %d not found", id)
	}
	return &m, nil
}

func (r fakeMembers) GetMany(ctx context.Context, ids []int64) ([]*secondary.MemberRecord, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*secondary.MemberRecord
	for _, m := range r.f.sortedMembers() {
		if want[m.ID] {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeMembers) nameOf(id int64) string {
	return r.f.state.members[id].Name
}

func (r fakeMembers) Search(ctx context.Context, q secondary.MemberQuery) ([]*secondary.MemberRecord, error) {
	if err := r.f.fail("members.search"); err != nil {
		return nil, err
	}
	var out []*secondary.MemberRecord
	for _, m := range r.f.sortedMembers() {
		if q.Name != "" && m.Name != q.Name {
			continue
		}
		if q.Born != "" && m.Born != q.Born {
			continue
		}
		if q.GenOrder != nil && m.GenOrder != *q.GenOrder {
			continue
		}
		if q.Dad != "" && (m.DadID == 0 || r.nameOf(m.DadID) != q.Dad) {
			continue
		}
		if q.Mom != "" && (m.MomID == 0 || r.nameOf(m.MomID) != q.Mom) {
			continue
		}
		if q.Spouse != "" && !r.hasSpouseNamed(m.ID, q.Spouse) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	return out, nil
}

func (r fakeMembers) hasSpouseNamed(id int64, name string) bool {
	for _, rel := range r.f.state.relations {
		if !strings.HasPrefix(rel.Relation, "spouse") {
			continue
		}
		sum := relation.Summary{MemberID: rel.MemberID, PartnerID: rel.PartnerID}
		if sum.Involves(id) && r.nameOf(sum.Other(id)) == name {
			return true
		}
	}
	return false
}

func (r fakeMembers) List(ctx context.Context, filters secondary.MemberFilters) ([]*secondary.MemberRecord, error) {
	var out []*secondary.MemberRecord
	for _, m := range r.f.sortedMembers() {
		if filters.GenBegin != nil && m.GenOrder < *filters.GenBegin {
			continue
		}
		if filters.GenEnd != nil && m.GenOrder > *filters.GenEnd {
			continue
		}
		if filters.FamilyID != 0 && m.FamilyID != filters.FamilyID {
			continue
		}
		m := m
		out = append(out, &m)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

func (r fakeMembers) Update(ctx context.Context, id int64, p secondary.MemberPatch) error {
	if err := r.f.fail("members.update"); err != nil {
		return err
	}
	m, ok := r.f.state.members[id]
	if !ok {
		return outcome.NotFound("member %d not found", id)
	}
	if p.Alias != nil {
		m.Alias = *p.Alias
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.URL != nil {
		m.URL = *p.URL
	}
	if p.Died != nil {
		m.Died = *p.Died
	}
	if p.Sex != nil {
		m.Sex = *p.Sex
	}
	if p.FamilyID != nil {
		m.FamilyID = *p.FamilyID
	}
	if p.DadID != nil {
		m.DadID = *p.DadID
	}
	if p.MomID != nil {
		m.MomID = *p.MomID
	}
	r.f.state.members[id] = m
	return nil
}

func (r fakeMembers) Count(ctx context.Context) (int, error) {
	return len(r.f.state.members), nil
}

type fakeRelations struct{ f *fakeStore }

func (r fakeRelations) Create(ctx context.Context, rel *secondary.RelationRecord) (int64, error) {
	if err := r.f.fail("relations.create"); err != nil {
		return 0, err
	}
	if rel.MemberID == rel.PartnerID {
		return 0, outcome.Validation("self relation")
	}
	for _, id := range []int64{rel.MemberID, rel.PartnerID} {
		if _, ok := r.f.state.members[id]; !ok {
			return 0, outcome.Validation("member %d does not exist", id)
		}
	}
	for _, existing := range r.f.state.relations {
		if existing.EndDate == "" && existing.MemberID == rel.MemberID &&
			existing.PartnerID == rel.PartnerID && existing.Relation == rel.Relation {
			return 0, outcome.Conflict("duplicate ongoing relation")
		}
	}
	join := rel.JoinDate
	if join == "" {
		join = "0000-01-01"
	}
	return r.f.addRelation(rel.MemberID, rel.PartnerID, relation.Type(rel.Relation), join, rel.EndDate), nil
}

func (r fakeRelations) GetByID(ctx context.Context, id int64) (*secondary.RelationRecord, error) {
	rel, ok := r.f.state.relations[id]
	if !ok {
		return nil, outcome.NotFound("relation %d not found", id)
	}
	return &rel, nil
}

func (r fakeRelations) ListInvolving(ctx context.Context, memberID int64) ([]*secondary.RelationRecord, error) {
	var out []*secondary.RelationRecord
	for _, rel := range r.f.sortedRelations() {
		if rel.MemberID == memberID || rel.PartnerID == memberID {
			rel := rel
			out = append(out, &rel)
		}
	}
	return out, nil
}

func (r fakeRelations) ListBetween(ctx context.Context, a, b int64) ([]*secondary.RelationRecord, error) {
	var out []*secondary.RelationRecord
	for _, rel := range r.f.sortedRelations() {
		if (rel.MemberID == a && rel.PartnerID == b) || (rel.MemberID == b && rel.PartnerID == a) {
			rel := rel
			out = append(out, &rel)
		}
	}
	return out, nil
}

func (r fakeRelations) End(ctx context.Context, id int64, endDate, relationType string) error {
	if err := r.f.fail("relations.end"); err != nil {
		return err
	}
	rel, ok := r.f.state.relations[id]
	if !ok {
		return outcome.NotFound("relation %d not found", id)
	}
	if rel.EndDate != "" {
		return outcome.Conflict("relation %d already ended", id)
	}
	rel.EndDate = endDate
	rel.Relation = relationType
	r.f.state.relations[id] = rel
	return nil
}

func (r fakeRelations) edges(ids []int64, parents bool) map[int64][]int64 {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	set := map[int64]map[int64]bool{}
	add := func(from, to int64) {
		if !want[from] || to == 0 {
			return
		}
		if set[from] == nil {
			set[from] = map[int64]bool{}
		}
		set[from][to] = true
	}
	for _, rel := range r.f.state.relations {
		switch relation.Type(rel.Relation).Family() {
		case relation.FamilyParent:
			if parents {
				add(rel.MemberID, rel.PartnerID)
			} else {
				add(rel.PartnerID, rel.MemberID)
			}
		case relation.FamilyChild:
			if parents {
				add(rel.PartnerID, rel.MemberID)
			} else {
				add(rel.MemberID, rel.PartnerID)
			}
		}
	}
	for _, m := range r.f.state.members {
		if parents {
			add(m.ID, m.DadID)
			add(m.ID, m.MomID)
		} else {
			add(m.DadID, m.ID)
			add(m.MomID, m.ID)
		}
	}
	out := map[int64][]int64{}
	for from, tos := range set {
		for to := range tos {
			out[from] = append(out[from], to)
		}
		sort.Slice(out[from], func(i, j int) bool { return out[from][i] < out[from][j] })
	}
	return out
}

func (r fakeRelations) Parents(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	return r.edges(ids, true), nil
}

func (r fakeRelations) Children(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	return r.edges(ids, false), nil
}

func (r fakeRelations) Count(ctx context.Context) (int, error) {
	return len(r.f.state.relations), nil
}

type fakeMirrors struct{ f *fakeStore }

func (r fakeMirrors) Clear(ctx context.Context) error {
	r.f.state.mirrors = nil
	return nil
}

func (r fakeMirrors) Insert(ctx context.Context, v map[string]any) (int64, error) {
	if err := r.f.fail("mirrors.insert"); err != nil {
		return 0, err
	}
	str := func(k string) string { s, _ := v[k].(string); return s }
	num := func(k string) int { n, _ := v[k].(int); return n }

	m := secondary.MirrorRecord{
		ID:        r.f.id(),
		RowNumber: num("row_number"),
		Name:      str("name"),
		Aka:       str("aka"),
		Born:      str("born"),
		Died:      str("died"),
		Dad:       str("dad"),
		Mom:       str("mom"),
		Relation:  num("relation"),
		Spouse:    str("spouse"),
		Married:   str("married"),
		GenOrder:  num("gen_order"),
		Href:      str("href"),
		Status:    num("status"),
	}
	if sex, ok := v["sex"].(int); ok {
		m.Sex = &sex
	}
	r.f.state.mirrors = append(r.f.state.mirrors, m)
	return m.ID, nil
}

func (r fakeMirrors) List(ctx context.Context) ([]*secondary.MirrorRecord, error) {
	out := make([]*secondary.MirrorRecord, len(r.f.state.mirrors))
	for i := range r.f.state.mirrors {
		m := r.f.state.mirrors[i]
		out[i] = &m
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RowNumber < out[j].RowNumber })
	return out, nil
}

type fakeLog struct{ f *fakeStore }

func (l fakeLog) LogEvent(ctx context.Context, event, entityType, entityID, detail string) error {
	if err := l.f.fail("log"); err != nil {
		return err
	}
	l.f.state.logs = append(l.f.state.logs, secondary.EventLogRecord{
		ID:         fmt.Sprintf("EV-%04d", len(l.f.state.logs)+1),
		ActorID:    ctxutil.ActorFromContext(ctx),
		RunID:      ctxutil.RunFromContext(ctx),
		Event:      event,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	})
	return nil
}

// fakeDeactivator records DeactivateAccount calls.
type fakeDeactivator struct {
	calls  []string
	active map[string]bool
	err    error
}

func (d *fakeDeactivator) DeactivateAccount(ctx context.Context, email string) (bool, error) {
	d.calls = append(d.calls, email)
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.active[email]
	if ok {
		d.active[email] = false
	}
	return ok, nil
}

// sliceSource is an in-memory primary.RowSource.
type sliceSource struct {
	fields []string
	rows   []map[string]string
	pos    int
}

func newSliceSource(rows ...map[string]string) *sliceSource {
	return &sliceSource{
		fields: []string{"Name", "Aka", "Sex", "Born", "Died", "Dad", "Mom", "Relation", "Spouse", "Married", "Order", "Href", "Status"},
		rows:   rows,
	}
}

func (s *sliceSource) Fields() []string { return s.fields }

func (s *sliceSource) Next() (map[string]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	s.pos++
	return s.rows[s.pos-1], nil
}

var (
	_ secondary.Transactor         = (*fakeStore)(nil)
	_ secondary.AccountDeactivator = (*fakeDeactivator)(nil)
)
