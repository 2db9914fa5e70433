package zdock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `128	1.2	54
0.000000	0.000000	0.000000
-0.312000	1.530000	0.800000
receptor_m.pdb	12.456	8.120	-4.300
ligand_m.pdb	-2.100	0.450	11.870
-0.125664	1.319469	2.952655	12	-5	33	1278.439
2.890265	0.942478	0.125664	-14	22	8	1145.207
0.062832	2.073451	1.256637	3	17	-29	1022.634
`

func TestParseOutput(t *testing.T) {
	poses, err := ParseOutput(strings.NewReader(sampleOutput))
	require.NoError(t, err)
	require.Len(t, poses, 3)

	assert.Equal(t, 1, poses[0].Rank)
	assert.Equal(t, 1278.439, poses[0].Score)
	assert.Equal(t, 3, poses[2].Rank)
	assert.Equal(t, 1022.634, poses[2].Score)
}

func TestParseOutputSkipsHeader(t *testing.T) {
	// Only the header, no prediction rows.
	header := strings.Join(strings.Split(sampleOutput, "\n")[:5], "\n")

	_, err := ParseOutput(strings.NewReader(header))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no predictions")
}

func TestComplexFile(t *testing.T) {
	assert.Equal(t, "complex.1.pdb", ComplexFile(1))
	assert.Equal(t, "complex.100.pdb", ComplexFile(100))
}
