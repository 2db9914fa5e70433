package zdock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and optionally creates files, standing in
// for the real ZDOCK binaries.
type fakeRunner struct {
	calls [][]string
	onRun func(dir string, name string, args []string) error
}

func (f *fakeRunner) Run(ctx context.Context, dir, stdin, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onRun != nil {
		return nil, f.onRun(dir, name, args)
	}
	return nil, nil
}

func (f *fakeRunner) Output(ctx context.Context, dir, stdin, name string, args ...string) ([]byte, error) {
	return f.Run(ctx, dir, stdin, name, args...)
}

func installDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range requiredFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0755))
	}
	return dir
}

func TestNewValidatesInstallation(t *testing.T) {
	dir := installDir(t)

	_, err := New(dir, &fakeRunner{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "mark_sur")))
	_, err = New(dir, &fakeRunner{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark_sur")
}

func TestMarkSurStagesUniCHARMM(t *testing.T) {
	install := installDir(t)
	work := t.TempDir()

	runner := &fakeRunner{}
	z, err := New(install, runner)
	require.NoError(t, err)

	require.NoError(t, z.MarkSur(context.Background(), work, "receptor.pdb", "receptor_m.pdb"))

	// mark_sur reads uniCHARMM from the working directory.
	_, err = os.Stat(filepath.Join(work, "uniCHARMM"))
	assert.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"receptor.pdb", "receptor_m.pdb"}, runner.calls[0][1:])
}

func TestRunBuildsFlags(t *testing.T) {
	install := installDir(t)
	runner := &fakeRunner{}
	z, err := New(install, runner)
	require.NoError(t, err)

	err = z.Run(context.Background(), t.TempDir(), Options{
		Receptor:      "r_m.pdb",
		Ligand:        "l_m.pdb",
		Output:        "zdock.out",
		Predictions:   2000,
		Seed:          42,
		DenseRotation: true,
	})
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	args := runner.calls[0][1:]
	assert.Equal(t, []string{"-R", "r_m.pdb", "-L", "l_m.pdb", "-o", "zdock.out", "-N", "2000", "-S", "42", "-D"}, args)
	assert.NotContains(t, args, "-F")
}

func TestCreateComplexes(t *testing.T) {
	install := installDir(t)
	work := t.TempDir()

	runner := &fakeRunner{
		onRun: func(dir, name string, args []string) error {
			// create.pl writes complex.N.pdb files into the working directory.
			for i := 1; i <= 3; i++ {
				if err := os.WriteFile(filepath.Join(dir, ComplexFile(i)), []byte("ATOM\n"), 0644); err != nil {
					return err
				}
			}
			return nil
		},
	}
	z, err := New(install, runner)
	require.NoError(t, err)

	files, err := z.CreateComplexes(context.Background(), work, "zdock.out", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"complex.1.pdb", "complex.2.pdb", "complex.3.pdb"}, files)

	// create.pl needs create_lig next to it.
	_, err = os.Stat(filepath.Join(work, "create_lig"))
	assert.NoError(t, err)
}

func TestCreateComplexesMissingOutput(t *testing.T) {
	install := installDir(t)

	z, err := New(install, &fakeRunner{})
	require.NoError(t, err)

	_, err = z.CreateComplexes(context.Background(), t.TempDir(), "zdock.out", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complex.1.pdb")
}
