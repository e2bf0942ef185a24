package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/gzcsv/pkg/compression"
)

// IntegrationTestSuite provides base functionality for integration tests
type IntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	tempDir   string
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *IntegrationTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	s.startTime = time.Now()

	tempDir, err := os.MkdirTemp("", "gzcsv-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir

	s.T().Logf("Integration test suite started in %s", s.tempDir)
}

// TearDownSuite runs after all tests in the suite
func (s *IntegrationTestSuite) TearDownSuite() {
	s.cancel()

	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}

	s.T().Logf("Integration test suite completed in %v", time.Since(s.startTime))
}

// Context returns the test context
func (s *IntegrationTestSuite) Context() context.Context {
	return s.ctx
}

// TempDir returns the temporary directory path
func (s *IntegrationTestSuite) TempDir() string {
	return s.tempDir
}

// CreateCompressedFile writes content compressed with alg into the suite's
// temp directory
func (s *IntegrationTestSuite) CreateCompressedFile(name, content string, alg compression.Algorithm) string {
	return WriteCompressedFile(s.T(), s.tempDir, name, content, alg)
}

// IntegrationTest marks a test as an integration test
func IntegrationTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// CatalogHeader is the header produced by GenerateCatalog
const CatalogHeader = "solution_id,designation,source_id,ra,dec,parallax,phot_variable_flag,has_xp"

// GenerateCatalog builds an astronomy-style CSV with a comment preamble and
// rows data rows. Every seventh row has an empty parallax and every
// eleventh a NaN one.
func GenerateCatalog(rows int) string {
	var b strings.Builder
	b.WriteString("# synthetic catalog\n# generated for tests\n")
	b.WriteString(CatalogHeader)
	b.WriteByte('\n')

	for i := 0; i < rows; i++ {
		parallax := fmt.Sprintf("%.3f", float64(i%97)/10)
		switch {
		case i%11 == 0:
			parallax = "NaN"
		case i%7 == 0:
			parallax = ""
		}
		fmt.Fprintf(&b, "1635721458409799680,Gaia DR3 %d,%d,%.4f,%.4f,%s,%s,%s\n",
			4295806720+i, 4295806720+i,
			float64(i%360)+0.25, float64(i%180)-90,
			parallax,
			[]string{"NOT_AVAILABLE", "VARIABLE"}[i%2],
			[]string{"True", "False"}[i%2],
		)
	}
	return b.String()
}
