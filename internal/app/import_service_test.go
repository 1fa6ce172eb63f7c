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

func newTestImportService() (*ImportServiceImpl, *fakeStore) {
	store := newFakeStore()
	return NewImportService(store, discardLogger()), store
}

func legacyRow(fields ...string) map[string]string {
	row := map[string]string{}
	for i := 0; i+1 < len(fields); i += 2 {
		row[fields[i]] = fields[i+1]
	}
	return row
}

func findMember(t *testing.T, store *fakeStore, name string) secondary.MemberRecord {
	t.Helper()
	var found []secondary.MemberRecord
	for _, m := range store.sortedMembers() {
		if m.Name == name {
			found = append(found, m)
		}
	}
	require.Len(t, found, 1, "members named %s", name)
	return found[0]
}

func TestImport_SingleRowIsIdempotent(t *testing.T) {
	service, store := newTestImportService()
	row := legacyRow("Name", "Alice", "Born", "1950-01-01", "Order", "1", "Sex", "1")

	report, err := service.Import(context.Background(), newSliceSource(row), primary.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Imported)
	assert.Zero(t, report.Errors)
	assert.NotEmpty(t, report.RunID)

	alice := findMember(t, store, "Alice")
	assert.Equal(t, 1, alice.GenOrder)
	assert.Equal(t, "F", alice.Sex)
	assert.Zero(t, alice.DadID)
	assert.Zero(t, alice.MomID)

	again, err := service.Import(context.Background(), newSliceSource(row), primary.ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, 1, again.Updated)
	assert.Len(t, store.state.members, 1)
	assert.NotEqual(t, report.RunID, again.RunID)
}

func TestImport_LinksParentsAcrossRows(t *testing.T) {
	service, store := newTestImportService()
	src := newSliceSource(
		legacyRow("Name", "Bob", "Born", "1960", "Dad", "Carl", "Mom", "Dana", "Order", "2", "Relation", "0", "Sex", "0"),
		legacyRow("Name", "Carl", "Born", "1930", "Order", "1", "Sex", "0", "Spouse", "Dana", "Status", "1", "Married", "1955-06-01"),
		legacyRow("Name", "Dana", "Born", "1932", "Order", "1", "Sex", "1", "Spouse", "Carl", "Status", "1", "Married", "1955-06-01"),
	)

	report, err := service.Import(context.Background(), src, primary.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 2, report.ParentsLinked)
	assert.Equal(t, 1, report.SpousesLinked, "the second spouse row finds the partnership already ongoing")
	assert.Zero(t, report.Errors)

	bob := findMember(t, store, "Bob")
	carl := findMember(t, store, "Carl")
	dana := findMember(t, store, "Dana")
	assert.Equal(t, carl.ID, bob.DadID)
	assert.Equal(t, dana.ID, bob.MomID)

	require.Len(t, store.ongoing(carl.ID, dana.ID), 1)
	assert.Equal(t, "1955-06-01", store.ongoing(carl.ID, dana.ID)[0].JoinDate)
	parentRels := store.ongoing(bob.ID, carl.ID)
	require.Len(t, parentRels, 1)
	assert.Equal(t, string(relation.Parent), parentRels[0].Relation)
	assert.Equal(t, "1960", parentRels[0].JoinDate)

	again, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Bob", "Born", "1960", "Dad", "Carl", "Mom", "Dana", "Order", "2", "Sex", "0"),
	), primary.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, again.ParentsLinked)
	assert.Len(t, store.state.relations, 3, "re-import adds no relations")
}

func TestImport_PreexistingParents(t *testing.T) {
	service, store := newTestImportService()
	carl := store.addMember(secondary.MemberRecord{Name: "Carl", Born: "1930", GenOrder: 1})
	dana := store.addMember(secondary.MemberRecord{Name: "Dana", Born: "1932", GenOrder: 1})

	_, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Bob", "Dad", "Carl", "Mom", "Dana", "Order", "2", "Relation", "0"),
	), primary.ImportOptions{})
	require.NoError(t, err)

	bob := findMember(t, store, "Bob")
	assert.Equal(t, "0000-01-01", bob.Born)
	assert.Equal(t, carl, bob.DadID)
	assert.Equal(t, dana, bob.MomID)
}

func TestImport_AmbiguousParentIsSkipped(t *testing.T) {
	service, store := newTestImportService()
	store.addMember(secondary.MemberRecord{Name: "Carl", Born: "1930", GenOrder: 1})
	store.addMember(secondary.MemberRecord{Name: "Carl", Born: "1931", GenOrder: 1})
	dana := store.addMember(secondary.MemberRecord{Name: "Dana", Born: "1932", GenOrder: 1})

	report, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Bob", "Dad", "Carl", "Mom", "Dana", "Order", "2", "Sex", "0"),
	), primary.ImportOptions{})
	require.NoError(t, err)

	bob := findMember(t, store, "Bob")
	assert.Zero(t, bob.DadID, "ambiguous dad is never guessed")
	assert.Equal(t, dana, bob.MomID)
	assert.Equal(t, 1, report.ParentsLinked)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Details, 1)
	assert.Equal(t, "parents", report.Details[0].Phase)
	assert.Equal(t, "skipped", report.Details[0].Kind)
}

func TestImport_RowFailuresAreIsolated(t *testing.T) {
	service, store := newTestImportService()
	src := newSliceSource(
		legacyRow("Name", "", "Order", "1"),
		legacyRow("Name", "Hal", "Born", "1950-31-01", "Order", "1"),
		legacyRow("Name", "Ivy", "Born", "1951", "Order", "1", "Sex", "9"),
		legacyRow("Name", "?", "Order", "1"),
	)

	report, err := service.Import(context.Background(), src, primary.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 3, report.Errors)
	assert.Equal(t, 1, report.Skipped, "unmapped sex code")

	ivy := findMember(t, store, "Ivy")
	assert.Empty(t, ivy.Sex)

	rows := map[int]string{}
	for _, d := range report.Details {
		rows[d.Row] = d.Phase
	}
	assert.Equal(t, map[int]string{1: "normalize", 2: "normalize", 3: "sex", 4: "member"}, rows)
}

func TestImport_AmbiguousExistingKeyIsSkipped(t *testing.T) {
	service, store := newTestImportService()
	store.addMember(secondary.MemberRecord{Name: "Eve", Born: "1985", GenOrder: 3})
	store.addMember(secondary.MemberRecord{Name: "Eve", Born: "1985", GenOrder: 3})

	report, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Eve", "Born", "1985", "Order", "3", "Sex", "1"),
	), primary.ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, store.state.members, 2)
}

func TestImport_NeverReplacesRealDeathWithSentinel(t *testing.T) {
	service, store := newTestImportService()
	id := store.addMember(secondary.MemberRecord{Name: "Old", Born: "1900", GenOrder: 1, Died: "1980", Sex: "M"})

	_, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Old", "Born", "1900", "Died", "0", "Order", "1", "Sex", "1", "Aka", "Grandpa"),
	), primary.ImportOptions{})
	require.NoError(t, err)

	old := store.member(id)
	assert.Equal(t, "1980", old.Died)
	assert.Equal(t, "M", old.Sex, "an existing sex is kept")
	assert.Equal(t, "Grandpa", old.Alias)
}

func TestImport_DryRunRollsBack(t *testing.T) {
	service, store := newTestImportService()

	report, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Alice", "Born", "1950", "Order", "1"),
	), primary.ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, store.state.members)
	assert.Empty(t, store.state.logs)
}

func TestImport_MissingHeaderFails(t *testing.T) {
	service, store := newTestImportService()
	src := newSliceSource()
	src.fields = []string{"Name", "Born"}

	_, err := service.Import(context.Background(), src, primary.ImportOptions{})
	require.Error(t, err)
	assert.True(t, outcome.Is(err, outcome.KindValidation))
	assert.Contains(t, err.Error(), "Order")
	assert.Zero(t, store.txCount)
}

func TestImport_StorageFailureAbortsRun(t *testing.T) {
	service, store := newTestImportService()
	store.failOn = "members.create"

	report, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Alice", "Order", "1"),
		legacyRow("Name", "Bob", "Order", "1"),
	), primary.ImportOptions{})
	require.Error(t, err)
	assert.Equal(t, outcome.KindStorage, outcome.KindOf(err))
	assert.NotNil(t, report)
	assert.Empty(t, store.state.members)
	assert.Empty(t, store.state.mirrors, "the staged rows roll back with the run")
}

func TestImport_TogetherStatusLinksDomesticPartner(t *testing.T) {
	service, store := newTestImportService()

	report, err := service.Import(context.Background(), newSliceSource(
		legacyRow("Name", "Kim", "Born", "1980", "Order", "2", "Sex", "1", "Spouse", "Lee", "Status", "2"),
		legacyRow("Name", "Lee", "Born", "1981", "Order", "2", "Sex", "0"),
		legacyRow("Name", "Max", "Born", "1982", "Order", "2", "Sex", "0", "Spouse", "Nobody", "Status", "1"),
	), primary.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.SpousesLinked)
	assert.Equal(t, 1, report.Skipped, "Max's spouse does not resolve")

	kim := findMember(t, store, "Kim")
	lee := findMember(t, store, "Lee")
	rels := store.ongoing(kim.ID, lee.ID)
	require.Len(t, rels, 1)
	assert.Equal(t, string(relation.SpouseDomestic), rels[0].Relation)
	assert.Equal(t, "0000-01-01", rels[0].JoinDate)
}
