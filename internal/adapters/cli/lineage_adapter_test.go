package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/example/kin/internal/ports/primary"
)

func sampleLineage() *primary.Lineage {
	bob := &primary.Member{ID: 3, Name: "Bob", Born: "1960", GenOrder: 2}
	return &primary.Lineage{
		Root: bob,
		Up:   2,
		Down: 1,
		Ancestors: []*primary.LineageEntry{
			{Member: &primary.Member{ID: 1, Name: "Carl", Born: "1930", GenOrder: 1}, Depth: 1},
		},
		Descendants: []*primary.LineageEntry{},
		Spouses: []*primary.SpouseEntry{
			{Member: &primary.Member{ID: 4, Name: "Erin", Born: "1962", GenOrder: 2}, Type: "spouse divorced", JoinDate: "1985", EndDate: "1999"},
		},
	}
}

func TestLineageAdapter_Text(t *testing.T) {
	service := &mockLineageService{lineage: sampleLineage()}
	out := &bytes.Buffer{}

	_, err := NewLineageAdapter(service, out).Show(context.Background(), primary.LineageRequest{MemberID: 3, Up: 2}, FormatText)
	require.NoError(t, err)
	assert.Equal(t, primary.LineageRequest{MemberID: 3, Up: 2}, service.lastReq)

	output := out.String()
	assert.Contains(t, output, "Ancestors (up to 2):")
	assert.Contains(t, output, "Carl (#1)")
	assert.Contains(t, output, "Descendants (up to 1):\n  none")
	assert.Contains(t, output, "spouse divorced 1985 – 1999")
}

func TestLineageAdapter_Structured(t *testing.T) {
	for _, format := range []string{FormatYAML, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, err := NewLineageAdapter(&mockLineageService{lineage: sampleLineage()}, out).
				Show(context.Background(), primary.LineageRequest{MemberID: 3}, format)
			require.NoError(t, err)

			var decoded primary.Lineage
			if format == FormatYAML {
				require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
			} else {
				require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
			}
			assert.Equal(t, "Bob", decoded.Root.Name)
			require.Len(t, decoded.Ancestors, 1)
			assert.Equal(t, 1, decoded.Ancestors[0].Depth)
			assert.Equal(t, "1999", decoded.Spouses[0].EndDate)
		})
	}
}

func TestLineageAdapter_UnknownFormat(t *testing.T) {
	service := &mockLineageService{lineage: sampleLineage()}
	_, err := NewLineageAdapter(service, &bytes.Buffer{}).Show(context.Background(), primary.LineageRequest{MemberID: 3}, "dot")
	require.Error(t, err)
	assert.Zero(t, service.lastReq.MemberID, "the walk is not run")
}

func TestLineageAdapter_Generations(t *testing.T) {
	service := &mockLineageService{members: []*primary.Member{
		{ID: 1, Name: "Carl", Born: "1930", GenOrder: 1},
		{ID: 2, Name: "Dana", Born: "1932", GenOrder: 1},
		{ID: 3, Name: "Bob", Born: "1960", GenOrder: 2},
	}}
	out := &bytes.Buffer{}

	_, err := NewLineageAdapter(service, out).Generations(context.Background(), 1, 2)
	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "Generation 1\n  Carl")
	assert.Contains(t, output, "Generation 2\n  Bob")
}
