package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/causelist/internal/acquire"
	"github.com/ppiankov/causelist/internal/model"
	"github.com/ppiankov/causelist/internal/render"
)

var req = acquire.Request{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)}

type stubProvider struct {
	name    string
	content *model.Content
	err     error
	calls   int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, r acquire.Request) (*model.Content, error) {
	p.calls++
	return p.content, p.err
}

// forbiddenProvider fails the test if it is ever asked for content
type forbiddenProvider struct{ t *testing.T }

func (p forbiddenProvider) Name() string { return "forbidden" }

func (p forbiddenProvider) Fetch(ctx context.Context, r acquire.Request) (*model.Content, error) {
	p.t.Fatal("provider must not be invoked")
	return nil, nil
}

type memorySink struct {
	saved []*model.CheckOutcome
	err   error
}

func (s *memorySink) Save(o *model.CheckOutcome) error {
	s.saved = append(s.saved, o)
	return s.err
}

type memoryDocuments struct {
	data []byte
	err  error
}

func (d *memoryDocuments) SaveDocument(date string, data []byte) (string, error) {
	if d.err != nil {
		return "", d.err
	}
	d.data = data
	return "cause_list_" + date + ".pdf", nil
}

func rendered(text string) *stubProvider {
	return &stubProvider{name: "rendered", content: &model.Content{Text: text, Provenance: model.ProvenanceRendered}}
}

func structured(text string) *stubProvider {
	return &stubProvider{name: "structured", content: &model.Content{
		Text:       text,
		Provenance: model.ProvenanceStructured,
		Payload:    []byte(`{"cases":[]}`),
	}}
}

func assertFoundInvariant(t *testing.T, o *model.CheckOutcome) {
	t.Helper()
	assert.Equal(t, o.Found, len(o.Matches) > 0, "found must track matches")
}

func TestCheck_RenderedOnlyScenario(t *testing.T) {
	sink := &memorySink{}
	checker := NewChecker(rendered("Header\nItem 4 MHAU012345662020 Serial: 7 Court: District Judge\nFooter"), sink)

	outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "MHAU012345662020"}, req)
	require.NoError(t, err)

	assert.True(t, outcome.Found)
	assert.Equal(t, model.MethodRendered, outcome.Method)
	assert.Equal(t, "2026-10-19", outcome.CheckedDate)
	require.Len(t, outcome.Matches, 1)
	assert.Equal(t, "7", outcome.Matches[0].Serial)
	assert.Equal(t, "District Judge", outcome.Matches[0].Court)
	assert.Empty(t, outcome.Notes)
	require.Len(t, sink.saved, 1)
	assert.Same(t, outcome, sink.saved[0])
}

func TestCheck_StructuredMatchSkipsRendered(t *testing.T) {
	sink := &memorySink{}
	api := structured("{\n  \"cnr\": \"MHAU012345662020\",\n  \"Serial\": 3\n}")
	checker := NewChecker(forbiddenProvider{t}, sink, WithStructured(api))

	outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "MHAU012345662020"}, req)
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls)
	assert.True(t, outcome.Found)
	assert.Equal(t, model.MethodAPI, outcome.Method)
	assert.JSONEq(t, `{"cases":[]}`, string(outcome.APIResponse))
	assertFoundInvariant(t, outcome)
	assert.Len(t, sink.saved, 1)
}

func TestCheck_StructuredMissFallsThrough(t *testing.T) {
	sink := &memorySink{}
	api := structured(`{"cases": []}`)
	page := rendered("CC 123/2023 Serial: 12")
	checker := NewChecker(page, sink, WithStructured(api))

	outcome, err := checker.Check(context.Background(), model.RawQuery{CaseType: "CC", Number: "123", Year: "2023"}, req)
	require.NoError(t, err)

	assert.Equal(t, 1, page.calls)
	assert.True(t, outcome.Found)
	assert.Equal(t, model.MethodRendered, outcome.Method, "method reflects the last provider that produced content")
	assert.Equal(t, "12", outcome.Matches[0].Serial)
	assert.Equal(t, []string{NoteNotInAPI}, outcome.Notes)
	assert.NotEmpty(t, outcome.APIResponse, "structured payload kept as a sample")
}

func TestCheck_StructuredFailuresBecomeNotes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		note string
	}{
		{"no credential", eris.Wrap(acquire.ErrNoCredential, "no API key"), NoteNoCredential},
		{"no endpoint", eris.Wrap(acquire.ErrRemoteUnavailable, "no API endpoint configured"), "API unavailable: "},
		{"remote error", eris.Wrap(acquire.ErrRemote, "status 503 Service Unavailable"), "API error: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &memorySink{}
			api := &stubProvider{name: "structured", err: tt.err}
			page := rendered("nothing relevant")
			checker := NewChecker(page, sink, WithStructured(api))

			outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "MHAU012345662020"}, req)
			require.NoError(t, err)

			assert.Equal(t, 1, page.calls)
			assert.False(t, outcome.Found)
			assert.Empty(t, outcome.Matches)
			assert.Equal(t, model.MethodRendered, outcome.Method)
			require.Len(t, outcome.Notes, 2)
			assert.Contains(t, outcome.Notes[0], tt.note)
			assert.Equal(t, NoteNotInRendered, outcome.Notes[1])
			assert.Len(t, sink.saved, 1)
		})
	}
}

func TestCheck_NumberYearOnly(t *testing.T) {
	checker := NewChecker(rendered("Cases listed: 123/2023 and 77/2019"), &memorySink{})

	outcome, err := checker.Check(context.Background(), model.RawQuery{CaseType: "CC", Number: "123", Year: "2023"}, req)
	require.NoError(t, err)

	require.True(t, outcome.Found)
	assert.Empty(t, outcome.Matches[0].Serial)
	assert.Nil(t, outcome.Matches[0].LineNo)
}

func TestCheck_InvalidQueryHasNoSideEffects(t *testing.T) {
	sink := &memorySink{}
	checker := NewChecker(forbiddenProvider{t}, sink, WithStructured(forbiddenProvider{t}))

	outcome, err := checker.Check(context.Background(), model.RawQuery{
		CNR: "MHAU012345662020", CaseType: "CC", Number: "123", Year: "2023",
	}, req)

	assert.Nil(t, outcome)
	assert.True(t, errors.Is(err, model.ErrInvalidQueryKind), "got %v", err)
	assert.Empty(t, sink.saved)
}

func TestCheck_RenderedFailureStillPersists(t *testing.T) {
	sink := &memorySink{}
	page := &stubProvider{name: "rendered", err: eris.Wrap(render.ErrOperatorCancelled, "context canceled")}
	checker := NewChecker(page, sink)

	outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "X"}, req)
	require.NoError(t, err)

	assert.False(t, outcome.Found)
	assert.Empty(t, outcome.Method, "no provider produced content")
	assert.Equal(t, []string{NoteOperatorCancel}, outcome.Notes)
	assert.Len(t, sink.saved, 1)
}

func TestCheck_DocumentSaved(t *testing.T) {
	page := rendered("board")
	page.content.Document = []byte("%PDF-1.7")
	page.content.Notes = []string{"from surface"}
	docs := &memoryDocuments{}
	checker := NewChecker(page, &memorySink{}, WithDocumentStore(docs))

	outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "X"}, req)
	require.NoError(t, err)

	assert.Equal(t, "cause_list_2026-10-19.pdf", outcome.DocumentPath)
	assert.Equal(t, []byte("%PDF-1.7"), docs.data)
	assert.Equal(t, []string{"from surface", NoteNotInRendered}, outcome.Notes)
}

func TestCheck_DocumentSaveFailureIsANote(t *testing.T) {
	page := rendered("X here")
	page.content.Document = []byte("%PDF")
	checker := NewChecker(page, &memorySink{}, WithDocumentStore(&memoryDocuments{err: errors.New("disk full")}))

	outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "X"}, req)
	require.NoError(t, err)

	assert.True(t, outcome.Found)
	assert.Empty(t, outcome.DocumentPath)
	require.Len(t, outcome.Notes, 1)
	assert.Contains(t, outcome.Notes[0], "disk full")
}

func TestCheck_SinkFailureReturnsOutcome(t *testing.T) {
	checker := NewChecker(rendered("X"), &memorySink{err: errors.New("read-only file system")})

	outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "X"}, req)
	require.Error(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Found)
}

func TestCheck_FoundInvariantAcrossPaths(t *testing.T) {
	texts := []string{"", "X", "no match", "line\nX\nline"}
	for _, apiText := range texts {
		for _, pageText := range texts {
			checker := NewChecker(rendered(pageText), &memorySink{}, WithStructured(structured(apiText)))
			outcome, err := checker.Check(context.Background(), model.RawQuery{CNR: "X"}, req)
			require.NoError(t, err)
			assertFoundInvariant(t, outcome)
			assert.LessOrEqual(t, len(outcome.Matches), 1)
		}
	}
}

func TestResolveDate(t *testing.T) {
	kolkata, err := LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 20:00 UTC on the 18th is already the 19th in Kolkata
	now := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		choice string
		want   string
	}{
		{"", "2026-10-19"},
		{"today", "2026-10-19"},
		{"Tomorrow", "2026-10-20"},
		{"2026-12-31", "2026-12-31"},
		{" 2027-01-02 ", "2027-01-02"},
	}
	for _, tt := range tests {
		got, err := ResolveDate(tt.choice, now, kolkata)
		require.NoError(t, err, tt.choice)
		assert.Equal(t, tt.want, got.Format(model.DateLayout), tt.choice)
	}

	for _, bad := range []string{"yesterday", "19-10-2026", "2026-02-30"} {
		_, err := ResolveDate(bad, now, kolkata)
		assert.True(t, errors.Is(err, model.ErrInvalidDate), "%q: got %v", bad, err)
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
}
