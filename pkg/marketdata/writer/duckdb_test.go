package writer

import (
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupSuite() {
	// Create a temporary directory for test output
	tempDir, err := os.MkdirTemp("", "duckdb-writer-test")
	suite.Require().NoError(err)
	suite.tempDir = tempDir
}

func (suite *DuckDBWriterTestSuite) TearDownSuite() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func sampleTable(symbol string, days int) types.RawTable {
	table := types.NewRawTable(symbol)
	table.Fields[types.FieldClose] = make([]float64, days)
	table.Fields[types.FieldVolume] = make([]float64, days)

	for i := 0; i < days; i++ {
		table.Dates = append(table.Dates, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i))
		table.Fields[types.FieldClose][i] = 100 + float64(i)
		table.Fields[types.FieldVolume][i] = 1000
	}

	return table
}

// countRows reads back an exported parquet file.
func (suite *DuckDBWriterTestSuite) countRows(path string, where string) int {
	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	var count int

	query := "SELECT COUNT(*) FROM read_parquet('" + path + "')"
	if where != "" {
		query += " WHERE " + where
	}

	suite.Require().NoError(db.QueryRow(query).Scan(&count))

	return count
}

func (suite *DuckDBWriterTestSuite) TestNewDuckDBWriter() {
	outputPath := filepath.Join(suite.tempDir, "test.parquet")
	writer := NewDuckDBWriter(outputPath)

	suite.NotNil(writer)
	suite.Equal(outputPath, writer.GetOutputPath())

	duckWriter, ok := writer.(*DuckDBWriter)
	suite.True(ok)
	suite.Nil(duckWriter.db)
	suite.Nil(duckWriter.tx)
	suite.Nil(duckWriter.stmt)
}

func (suite *DuckDBWriterTestSuite) TestInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_init.parquet"))

	suite.NoError(writer.Initialize())

	duckWriter := writer.(*DuckDBWriter)
	suite.NotNil(duckWriter.db)
	suite.NotNil(duckWriter.tx)
	suite.NotNil(duckWriter.stmt)

	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_no_init.parquet"))

	err := writer.WriteTable(sampleTable("AAPL", 2))
	suite.Error(err)
	suite.Contains(err.Error(), "not initialized")
}

func (suite *DuckDBWriterTestSuite) TestWriteMalformedTable() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_malformed.parquet"))
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	table := sampleTable("AAPL", 3)
	table.Fields[types.FieldClose] = table.Fields[types.FieldClose][:2]

	suite.Error(writer.WriteTable(table))
}

func (suite *DuckDBWriterTestSuite) TestFinalizeWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_finalize_no_init.parquet"))

	_, err := writer.Finalize()
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestFullWorkflow() {
	outputPath := filepath.Join(suite.tempDir, "test_full.parquet")
	writer := NewDuckDBWriter(outputPath)
	suite.Require().NoError(writer.Initialize())

	table := sampleTable("AAPL", 10)
	table.Fields[types.FieldClose][3] = math.NaN()

	suite.NoError(writer.WriteTable(table))
	suite.NoError(writer.WriteTable(sampleTable("MSFT", 4)))

	path, err := writer.Finalize()
	suite.NoError(err)
	suite.Equal(outputPath, path)
	suite.NoError(writer.Close())

	suite.FileExists(outputPath)
	suite.Equal(14, suite.countRows(outputPath, ""))
	suite.Equal(4, suite.countRows(outputPath, "symbol = 'MSFT'"))
	suite.Equal(1, suite.countRows(outputPath, "symbol = 'AAPL' AND close IS NULL"))
	// fields the table does not carry are archived as NULL
	suite.Equal(14, suite.countRows(outputPath, "adj_close IS NULL"))
}

func (suite *DuckDBWriterTestSuite) TestWriteAfterFinalize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_after_finalize.parquet"))
	suite.Require().NoError(writer.Initialize())
	suite.NoError(writer.WriteTable(sampleTable("AAPL", 1)))

	_, err := writer.Finalize()
	suite.NoError(err)

	// the statement belongs to the committed transaction
	suite.Error(writer.WriteTable(sampleTable("AAPL", 1)))
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestDoubleFinalize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_double_finalize.parquet"))
	suite.Require().NoError(writer.Initialize())

	_, err := writer.Finalize()
	suite.NoError(err)

	_, err = writer.Finalize()
	suite.Error(err)
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestFinalizeExportError() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "missing", "dir", "out.parquet"))
	suite.Require().NoError(writer.Initialize())
	suite.NoError(writer.WriteTable(sampleTable("AAPL", 1)))

	_, err := writer.Finalize()
	suite.Error(err)
	suite.Contains(err.Error(), "failed to export to Parquet")
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestCloseWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "test_close_no_init.parquet"))
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestCloseWithActiveTransaction() {
	outputPath := filepath.Join(suite.tempDir, "test_active_tx.parquet")
	writer := NewDuckDBWriter(outputPath)
	suite.Require().NoError(writer.Initialize())
	suite.NoError(writer.WriteTable(sampleTable("AAPL", 2)))

	suite.NoError(writer.Close())
	suite.NoError(writer.Close())

	_, err := os.Stat(outputPath)
	suite.True(os.IsNotExist(err))
}
