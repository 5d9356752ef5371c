package args

import (
	"bytes"
	"sync"
	"testing"

	"github.com/arthur-debert/typeset/pkg/config"
	"github.com/arthur-debert/typeset/pkg/exitstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeHarness struct {
	stdout, stderr bytes.Buffer
	exitCodes      []int
	greeted        int
	configLoads    int
}

func newHarness(t *testing.T) (*storeHarness, *Store) {
	t.Helper()
	t.Setenv(EnvSourceDateEpoch, "")
	plainTemplates(t)

	h := &storeHarness{}
	store := NewStore(StoreOptions{
		Config: func() *config.Config {
			h.configLoads++
			return testConfig()
		},
		Greeter: func() {
			h.greeted++
			h.stderr.WriteString("welcome\n")
		},
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Exit:   func(code int) { h.exitCodes = append(h.exitCodes, code) },
	})
	return h, store
}

func TestStoreParsesOnce(t *testing.T) {
	h, store := newHarness(t)

	first := store.GetOrInitialize([]string{"compile", "a.typ"})
	require.NotNil(t, first)

	second := store.GetOrInitialize([]string{"query", "b.typ", "<x>"})
	assert.Same(t, first, second, "later calls return the cached invocation")
	assert.Equal(t, "a.typ", second.Command.(*CompileArgs).Input)

	assert.Equal(t, 1, h.configLoads)
	assert.Empty(t, h.exitCodes)
	assert.Empty(t, h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestStoreConcurrentFirstCalls(t *testing.T) {
	h, store := newHarness(t)

	const callers = 8
	results := make([]*Invocation, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = store.GetOrInitialize([]string{"compile", "a.typ"})
		}(i)
	}
	wg.Wait()

	for _, inv := range results {
		assert.Same(t, results[0], inv)
	}
	assert.Equal(t, 1, h.configLoads)
}

func TestStoreMissingSubcommandGreetsThenExits(t *testing.T) {
	h, store := newHarness(t)

	inv := store.GetOrInitialize([]string{})
	assert.Nil(t, inv)

	assert.Equal(t, 1, h.greeted)
	assert.Equal(t, []int{exitstate.ExitUsage}, h.exitCodes)

	out := h.stderr.String()
	assert.True(t, len(out) > len("welcome\n"))
	assert.Equal(t, "welcome\n", out[:len("welcome\n")], "banner comes before the usage text")
	assert.Contains(t, out, "USAGE")
	assert.Empty(t, h.stdout.String())

	// The failed parse is cached too.
	assert.Nil(t, store.GetOrInitialize([]string{"compile", "a.typ"}))
	assert.Len(t, h.exitCodes, 1)
}

func TestStoreInvalidArgumentsExitWithUsage(t *testing.T) {
	h, store := newHarness(t)

	assert.Nil(t, store.GetOrInitialize([]string{"compile", "doc.typ", "--ppi", "-1"}))

	assert.Equal(t, []int{exitstate.ExitUsage}, h.exitCodes)
	assert.Zero(t, h.greeted)
	assert.Contains(t, h.stderr.String(), "error: ppi must be a positive number\n")
	assert.Contains(t, h.stderr.String(), "USAGE")
	assert.Contains(t, h.stderr.String(), MsgHintHelp)
}

func TestStoreHelpExitsZeroOnStdout(t *testing.T) {
	h, store := newHarness(t)

	assert.Nil(t, store.GetOrInitialize([]string{"--help"}))

	assert.Equal(t, []int{exitstate.ExitSuccess}, h.exitCodes)
	assert.Contains(t, h.stdout.String(), "USAGE")
	assert.Empty(t, h.stderr.String())
	assert.Zero(t, h.greeted)
}

func TestDefaultStoreIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
