package cli

import (
	"context"

	"github.com/example/kin/internal/ports/primary"
)

// mockMemberService implements primary.MemberService for testing.
type mockMemberService struct {
	addMemberFn   func(ctx context.Context, req primary.AddMemberRequest) (*primary.Member, error)
	getMemberFn   func(ctx context.Context, id int64) (*primary.Member, error)
	listMembersFn func(ctx context.Context, filters primary.MemberFilters) ([]*primary.Member, error)
	relationsFn   func(ctx context.Context, id int64) ([]*primary.RelationView, error)
}

func (m *mockMemberService) AddMember(ctx context.Context, req primary.AddMemberRequest) (*primary.Member, error) {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, req)
	}
	return &primary.Member{ID: 1, Name: req.Name, Born: req.Born, GenOrder: req.GenOrder}, nil
}

func (m *mockMemberService) GetMember(ctx context.Context, id int64) (*primary.Member, error) {
	if m.getMemberFn != nil {
		return m.getMemberFn(ctx, id)
	}
	return &primary.Member{ID: id, Name: "Bob", Born: "1960", GenOrder: 2}, nil
}

func (m *mockMemberService) ListMembers(ctx context.Context, filters primary.MemberFilters) ([]*primary.Member, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, filters)
	}
	return []*primary.Member{}, nil
}

func (m *mockMemberService) RelationsOf(ctx context.Context, id int64) ([]*primary.RelationView, error) {
	if m.relationsFn != nil {
		return m.relationsFn(ctx, id)
	}
	return []*primary.RelationView{}, nil
}

// mockIdentityService implements primary.IdentityService for testing.
type mockIdentityService struct {
	resolution *primary.Resolution
	err        error
}

func (m *mockIdentityService) Resolve(ctx context.Context, req primary.ResolveRequest) (*primary.Resolution, error) {
	return m.resolution, m.err
}

// mockLifeEventService implements primary.LifeEventService for testing.
type mockLifeEventService struct {
	birth   *primary.BirthResponse
	death   *primary.DeathResponse
	marry   *primary.MarriageResponse
	divorce *primary.DivorceResponse
	adopt   *primary.AdoptionResponse
	step    *primary.StepResponse
	err     error
}

func (m *mockLifeEventService) Birth(ctx context.Context, req primary.BirthRequest) (*primary.BirthResponse, error) {
	return m.birth, m.err
}

func (m *mockLifeEventService) Death(ctx context.Context, req primary.DeathRequest) (*primary.DeathResponse, error) {
	return m.death, m.err
}

func (m *mockLifeEventService) Marry(ctx context.Context, req primary.MarriageRequest) (*primary.MarriageResponse, error) {
	return m.marry, m.err
}

func (m *mockLifeEventService) Divorce(ctx context.Context, req primary.DivorceRequest) (*primary.DivorceResponse, error) {
	return m.divorce, m.err
}

func (m *mockLifeEventService) Adopt(ctx context.Context, req primary.AdoptionRequest) (*primary.AdoptionResponse, error) {
	return m.adopt, m.err
}

func (m *mockLifeEventService) AddStepParent(ctx context.Context, req primary.StepRequest) (*primary.StepResponse, error) {
	return m.step, m.err
}

// mockImportService implements primary.ImportService for testing.
type mockImportService struct {
	report   *primary.ImportReport
	err      error
	lastOpts primary.ImportOptions
}

func (m *mockImportService) Import(ctx context.Context, src primary.RowSource, opts primary.ImportOptions) (*primary.ImportReport, error) {
	m.lastOpts = opts
	return m.report, m.err
}

// mockLineageService implements primary.LineageService for testing.
type mockLineageService struct {
	members []*primary.Member
	lineage *primary.Lineage
	err     error
	lastReq primary.LineageRequest
}

func (m *mockLineageService) MembersInRange(ctx context.Context, begin, end int) ([]*primary.Member, error) {
	return m.members, m.err
}

func (m *mockLineageService) Lineage(ctx context.Context, req primary.LineageRequest) (*primary.Lineage, error) {
	m.lastReq = req
	return m.lineage, m.err
}

// mockAccountService implements primary.AccountService for testing.
type mockAccountService struct {
	accounts []*primary.Account
	ok       bool
	err      error
}

func (m *mockAccountService) Register(ctx context.Context, req primary.RegisterAccountRequest) (*primary.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Account{ID: 1, Email: req.Email, State: "active", Role: "member"}, nil
}

func (m *mockAccountService) Verify(ctx context.Context, email, password string) (bool, error) {
	return m.ok, m.err
}

func (m *mockAccountService) ListAccounts(ctx context.Context, filters primary.AccountFilters) ([]*primary.Account, error) {
	return m.accounts, m.err
}

func (m *mockAccountService) Deactivate(ctx context.Context, email string) (bool, error) {
	return m.ok, m.err
}

// mockLogService implements primary.LogService for testing.
type mockLogService struct {
	entries     []*primary.LogEntry
	lastFilters primary.LogFilters
}

func (m *mockLogService) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	m.lastFilters = filters
	return m.entries, nil
}

var (
	_ primary.MemberService    = (*mockMemberService)(nil)
	_ primary.IdentityService  = (*mockIdentityService)(nil)
	_ primary.LifeEventService = (*mockLifeEventService)(nil)
	_ primary.ImportService    = (*mockImportService)(nil)
	_ primary.LineageService   = (*mockLineageService)(nil)
	_ primary.AccountService   = (*mockAccountService)(nil)
	_ primary.LogService       = (*mockLogService)(nil)
)
