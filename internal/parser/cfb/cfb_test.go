package cfb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/parser"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		streams []string
		want    Kind
	}{
		{"legacy", []string{"Current User", StreamPowerPointDocument, "Pictures"}, KindLegacyPowerPoint},
		{"encrypted", []string{StreamEncryptionInfo, StreamEncryptedPackage, "\x06DataSpaces/Version"}, KindEncryptedPackage},
		{"info only", []string{StreamEncryptionInfo}, KindUnknown},
		{"empty", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.streams))
		})
	}
}

func TestParse_Unsupported(t *testing.T) {
	for _, kind := range []Kind{KindLegacyPowerPoint, KindEncryptedPackage, KindUnknown} {
		p := &Parser{kind: kind}
		doc, err := p.Parse()
		assert.Nil(t, doc)
		var ue *ir.UnsupportedFeatureError
		require.True(t, errors.As(err, &ue))
		assert.Contains(t, ue.Feature, kind.String())
		assert.NoError(t, p.Close())
	}
}

func TestNew_InvalidContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.ppt")
	require.NoError(t, os.WriteFile(path, []byte("not an OLE2 file at all, just text padding it out"), 0644))

	_, err := New(path, parser.DefaultOptions())
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing.ppt"), parser.DefaultOptions())
	assert.Error(t, err)
}
