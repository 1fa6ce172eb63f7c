package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kin/internal/core/outcome"
	"github.com/example/kin/internal/core/relation"
	"github.com/example/kin/internal/ports/primary"
	"github.com/example/kin/internal/ports/secondary"
)

func newTestMemberService() (*MemberServiceImpl, *fakeStore) {
	store := newFakeStore()
	return NewMemberService(store, discardLogger()), store
}

func TestAddMember_Success(t *testing.T) {
	service, store := newTestMemberService()

	m, err := service.AddMember(context.Background(), primary.AddMemberRequest{
		Name:     "Carl",
		Born:     "1930-04-02",
		GenOrder: 1,
		Sex:      "m",
	})
	require.NoError(t, err)

	assert.Equal(t, "Carl", m.Name)
	assert.Equal(t, "M", m.Sex)
	assert.False(t, m.Deceased)
	assert.Equal(t, 1, store.member(m.ID).GenOrder)
	require.Len(t, store.state.logs, 1)
	assert.Equal(t, "add", store.state.logs[0].Event)
}

func TestAddMember_UnknownBirthDefaultsToSentinel(t *testing.T) {
	service, _ := newTestMemberService()

	m, err := service.AddMember(context.Background(), primary.AddMemberRequest{Name: "Ann", GenOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, "0000-01-01", m.Born)
}

func TestAddMember_DuplicateNaturalKey(t *testing.T) {
	service, store := newTestMemberService()
	store.addMember(secondary.MemberRecord{Name: "Carl", Born: "1930", GenOrder: 1})

	_, err := service.AddMember(context.Background(), primary.AddMemberRequest{Name: "Carl", Born: "1930", GenOrder: 1})
	require.Error(t, err)
	assert.True(t, outcome.Is(err, outcome.KindConflict))
	assert.Len(t, store.state.members, 1)
	assert.Empty(t, store.state.logs)
}

func TestAddMember_Validation(t *testing.T) {
	service, _ := newTestMemberService()

	tests := []struct {
		name string
		req  primary.AddMemberRequest
	}{
		{"missing name", primary.AddMemberRequest{GenOrder: 1}},
		{"bad date", primary.AddMemberRequest{Name: "Carl", Born: "1930-13-01"}},
		{"negative generation", primary.AddMemberRequest{Name: "Carl", GenOrder: -1}},
		{"bad sex", primary.AddMemberRequest{Name: "Carl", Sex: "x"}},
		{"placeholder name", primary.AddMemberRequest{Name: "?"}},
		{"bad email", primary.AddMemberRequest{Name: "Carl", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddMember(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, outcome.KindValidation, outcome.KindOf(err))
		})
	}
}

func TestAddMember_LogFailureRollsBack(t *testing.T) {
	service, store := newTestMemberService()
	store.failOn = "log"

	_, err := service.AddMember(context.Background(), primary.AddMemberRequest{Name: "Carl", GenOrder: 1})
	require.Error(t, err)
	assert.Empty(t, store.state.members)
}

func TestGetMember_NotFound(t *testing.T) {
	service, _ := newTestMemberService()

	_, err := service.GetMember(context.Background(), 42)
	assert.True(t, outcome.Is(err, outcome.KindNotFound))
}

func TestListMembers_OrderAndRange(t *testing.T) {
	service, store := newTestMemberService()
	store.addMember(secondary.MemberRecord{Name: "Fay", Born: "1990", GenOrder: 3})
	store.addMember(secondary.MemberRecord{Name: "Dana", Born: "1932", GenOrder: 1})
	store.addMember(secondary.MemberRecord{Name: "Carl", Born: "1930", GenOrder: 1})
	store.addMember(secondary.MemberRecord{Name: "Bob", Born: "1960", GenOrder: 2})

	all, err := service.ListMembers(context.Background(), primary.MemberFilters{})
	require.NoError(t, err)
	var names []string
	for _, m := range all {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Carl", "Dana", "Bob", "Fay"}, names)

	begin, end := 2, 3
	ranged, err := service.ListMembers(context.Background(), primary.MemberFilters{GenBegin: &begin, GenEnd: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	_, err = service.ListMembers(context.Background(), primary.MemberFilters{GenBegin: &end, GenEnd: &begin})
	assert.True(t, outcome.Is(err, outcome.KindValidation))
}

func TestRelationsOf_LabelsFromMemberSide(t *testing.T) {
	service, store := newTestMemberService()
	carl := store.addMember(secondary.MemberRecord{Name: "Carl", Born: "1930", GenOrder: 1})
	bob := store.addMember(secondary.MemberRecord{Name: "Bob", Born: "1960", GenOrder: 2})
	erin := store.addMember(secondary.MemberRecord{Name: "Erin", Born: "1962", GenOrder: 2})
	store.addRelation(bob, carl, relation.Parent, "1960", "")
	store.addRelation(bob, erin, relation.SpouseDivorced, "1985", "1999")

	views, err := service.RelationsOf(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "parent", views[0].Label)
	assert.Equal(t, "Carl", views[0].Other.Name)
	assert.True(t, views[0].Ongoing)
	assert.False(t, views[1].Ongoing)

	fromCarl, err := service.RelationsOf(context.Background(), carl)
	require.NoError(t, err)
	require.Len(t, fromCarl, 1)
	assert.Equal(t, "child", fromCarl[0].Label)
	assert.Equal(t, "parent", fromCarl[0].Stored)

	_, err = service.RelationsOf(context.Background(), 999)
	assert.True(t, outcome.Is(err, outcome.KindNotFound))
}
