// internal/dataset/dataset_test.go
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ribopred-core/alphabet"
	"ribopred-core/seq"

	"github.com/pkg/errors"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "in.csv",
		"sequence_id,sequence,id_min,id_max\nr1,ACGU,0,3\nr2,GG,4,5\n")

	tab, err := Load(context.Background(), path, FormatAuto, 0)
	require.NoError(t, err)
	require.Len(t, tab.Records, 2)
	assert.Equal(t, seq.Record{SequenceID: "r1", Seq: "ACGU", IDMin: 0, IDMax: 3}, tab.Records[0])
	assert.Equal(t, 4, tab.Lmax)
}

func TestLoadCSVNormalizes(t *testing.T) {
	path := writeFile(t, "in.csv",
		"sequence,id_min,id_max\n\"ac gu\",0,3\n")

	tab, err := Load(context.Background(), path, FormatCSV, 0)
	require.NoError(t, err)
	assert.Equal(t, "ACGU", tab.Records[0].Seq)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeFile(t, "in.csv", "sequence,id_min\nACGU,0\n")

	_, err := Load(context.Background(), path, FormatCSV, 0)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Reason, "id_max")
}

func TestLoadCSVUnknownSymbol(t *testing.T) {
	path := writeFile(t, "in.csv", "sequence,id_min,id_max\nACGX,0,3\n")

	_, err := Load(context.Background(), path, FormatCSV, 0)
	var use *alphabet.UnknownSymbolError
	require.True(t, errors.As(err, &use), "want UnknownSymbolError, got %v", err)
	assert.Equal(t, byte('X'), use.Symbol)
}

func TestLoadCSVRejectsDNA(t *testing.T) {
	path := writeFile(t, "in.csv", "sequence,id_min,id_max\nACGT,0,3\n")

	_, err := Load(context.Background(), path, FormatCSV, 0)
	var use *alphabet.UnknownSymbolError
	require.True(t, errors.As(err, &use), "T must not be accepted, got %v", err)
}

func TestLoadCSVOverlap(t *testing.T) {
	path := writeFile(t, "in.csv",
		"sequence,id_min,id_max\nACGU,0,3\nGG,3,4\n")

	_, err := Load(context.Background(), path, FormatCSV, 0)
	var oe *seq.OverlapError
	require.True(t, errors.As(err, &oe), "want OverlapError, got %v", err)
}

func TestLoadCSVBadRange(t *testing.T) {
	path := writeFile(t, "in.csv", "sequence,id_min,id_max\nACGU,0,7\n")

	_, err := Load(context.Background(), path, FormatCSV, 0)
	assert.Error(t, err)
}

func TestLoadCSVEmptyTable(t *testing.T) {
	path := writeFile(t, "in.csv", "sequence,id_min,id_max\n")

	tab, err := Load(context.Background(), path, FormatCSV, 0)
	require.NoError(t, err)
	assert.Empty(t, tab.Records)
	assert.Equal(t, 0, tab.Lmax)
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.parquet")
	rows := []tableRow{
		{SequenceID: "r1", Sequence: "ACGU", IDMin: 0, IDMax: 3},
		{SequenceID: "r2", Sequence: "GGUU", IDMin: 4, IDMax: 7},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	tab, err := Load(context.Background(), path, FormatAuto, 0)
	require.NoError(t, err)
	require.Len(t, tab.Records, 2)
	assert.Equal(t, "GGUU", tab.Records[1].Seq)
	assert.Equal(t, int64(4), tab.Records[1].IDMin)
}

func TestLoadFASTAAssignsSequentialIDs(t *testing.T) {
	path := writeFile(t, "in.fa", ">a\nACGU\n>b\nGG\n")

	tab, err := Load(context.Background(), path, FormatAuto, 0)
	require.NoError(t, err)
	require.Len(t, tab.Records, 2)
	assert.Equal(t, int64(0), tab.Records[0].IDMin)
	assert.Equal(t, int64(3), tab.Records[0].IDMax)
	assert.Equal(t, int64(4), tab.Records[1].IDMin)
	assert.Equal(t, int64(5), tab.Records[1].IDMax)
	assert.Equal(t, "a", tab.Records[0].SequenceID)
}

func TestLoadFASTAIDBase(t *testing.T) {
	path := writeFile(t, "in.fa", ">a\nACGU\n")

	tab, err := Load(context.Background(), path, FormatFASTA, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), tab.Records[0].IDMin)
	assert.Equal(t, int64(103), tab.Records[0].IDMax)
}

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		path, format, want string
		wantErr            bool
	}{
		{"x.parquet", FormatAuto, FormatParquet, false},
		{"x.pq", FormatAuto, FormatParquet, false},
		{"x.csv", FormatAuto, FormatCSV, false},
		{"x.fasta", FormatAuto, FormatFASTA, false},
		{"x.fa.gz", FormatAuto, FormatFASTA, false},
		{"-", FormatAuto, FormatCSV, false},
		{"x.bin", FormatAuto, "", true},
		{"x.csv.gz", FormatAuto, "", true},
		{"x.bin", FormatParquet, FormatParquet, false},
		{"x.csv", "tsv", "", true},
	}
	for _, c := range cases {
		got, err := resolveFormat(c.path, c.format)
		if c.wantErr {
			assert.Error(t, err, c.path)
			continue
		}
		require.NoError(t, err, c.path)
		assert.Equal(t, c.want, got, c.path)
	}
}
