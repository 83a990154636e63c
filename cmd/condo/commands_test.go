package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"condo/internal/auth"
	"condo/internal/config"
	"condo/internal/db"
	"condo/internal/mockapi"
	"condo/internal/model"
	"condo/internal/ui"
)

// sharedStore outlives the commands that close it.
type sharedStore struct{ db.Store }

func (sharedStore) Close() error { return nil }

// setupCLI points the commands at one in-memory store without latency.
func setupCLI(t *testing.T) db.Store {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CONDO_MOCK_ENABLED", "false")
	t.Setenv("CONDO_METRICS_PORT", "0")

	mem := db.NewMemoryStore()
	t.Cleanup(func() { mem.Close() })

	prevStore, prevHash, prevAsk := newStore, hashPassword, askOneFunc
	newStore = func(db.StoreConfig) (db.Store, error) { return sharedStore{mem}, nil }
	hashPassword = func(s string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
		return string(h), err
	}
	t.Cleanup(func() {
		newStore, hashPassword, askOneFunc = prevStore, prevHash, prevAsk
		resetFlags(rootCmd)
	})
	return mem
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// answers replies to survey prompts by message.
func answers(t *testing.T, byMessage map[string]string) *[]string {
	asked := &[]string{}
	askOneFunc = func(p survey.Prompt, response any, _ ...survey.AskOpt) error {
		var msg string
		switch prompt := p.(type) {
		case *survey.Input:
			msg = prompt.Message
		case *survey.Password:
			msg = prompt.Message
		case *survey.Select:
			msg = prompt.Message
		default:
			return fmt.Errorf("unknown prompt type %T", p)
		}
		*asked = append(*asked, msg)
		val, ok := byMessage[msg]
		if !ok {
			return fmt.Errorf("unexpected question: %s", msg)
		}
		*(response.(*string)) = val
		return nil
	}
	return asked
}

func serviceOver(store db.Store) *mockapi.Service {
	return mockapi.New(store, mockapi.WithConfig(mockapi.Config{}))
}

func TestSeedCmd(t *testing.T) {
	store := setupCLI(t)
	ds := model.Seed()

	out, err := execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Loaded %d usuarios, %d chamados", len(ds.Usuarios), len(ds.Chamados)))
	assert.Contains(t, out, "memory store")

	n, err := store.Count(context.Background(), model.Usuarios.String())
	require.NoError(t, err)
	assert.Equal(t, len(ds.Usuarios), n)

	out, err = execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already has data")

	out, err = execute(t, "seed", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded")
}

func TestUseraddCmd(t *testing.T) {
	store := setupCLI(t)
	asked := answers(t, map[string]string{"Senha:": "Segredo1"})

	out, err := execute(t, "useradd", "--nome", "Ana Lima", "--email", "ana@exemplo.com", "--perfil", "morador", "--apartamento", "202")
	require.NoError(t, err)
	assert.Contains(t, out, "Created ana@exemplo.com (Morador)")
	assert.Equal(t, []string{"Senha:"}, *asked)

	u, err := serviceOver(store).FindUserByEmail(context.Background(), "ana@exemplo.com")
	require.NoError(t, err)
	require.NotNil(t, u.Apartamento)
	assert.Equal(t, "202", *u.Apartamento)
	assert.NotEqual(t, "Segredo1", u.Senha)
	assert.True(t, auth.CheckPassword(u.Senha, "Segredo1"))
}

func TestUseraddCmd_PromptsForMissingValues(t *testing.T) {
	store := setupCLI(t)
	asked := answers(t, map[string]string{
		"Nome:":   "Carlos Alves",
		"E-mail:": "carlos@exemplo.com",
		"Senha:":  "Segredo1",
		"Perfil:": model.PerfilSindico,
	})

	_, err := execute(t, "useradd")
	require.NoError(t, err)
	// sindicos are not asked for an apartment
	assert.Equal(t, []string{"Nome:", "E-mail:", "Senha:", "Perfil:"}, *asked)

	u, err := serviceOver(store).FindUserByEmail(context.Background(), "carlos@exemplo.com")
	require.NoError(t, err)
	assert.Equal(t, model.PerfilSindico, u.Perfil)
	assert.Nil(t, u.Apartamento)
}

func TestUseraddCmd_ReportsFieldErrors(t *testing.T) {
	setupCLI(t)
	answers(t, map[string]string{"Senha:": "fraca"})

	_, err := execute(t, "useradd", "--nome", "Ana Lima", "--email", "invalido", "--perfil", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dados inválidos")
	assert.Contains(t, err.Error(), "email: Formato de e-mail inválido")
	assert.Contains(t, err.Error(), "senha:")
}

func TestUseraddCmd_RejectsTakenEmail(t *testing.T) {
	setupCLI(t)
	answers(t, map[string]string{"Senha:": "Segredo1"})

	_, err := execute(t, "useradd", "--nome", "Maria Clara", "--email", "maria@exemplo.com", "--perfil", "morador", "--apartamento", "104")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email: E-mail já cadastrado")

	resetFlags(rootCmd)
	_, err = execute(t, "useradd", "--nome", "Outro Admin", "--email", "admin@condominio.com", "--perfil", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email: E-mail reservado")
}

func TestReportCmd(t *testing.T) {
	setupCLI(t)
	ds := model.Seed()

	out, err := execute(t, "report", "--json")
	require.NoError(t, err)
	var rep mockapi.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, len(ds.Chamados), rep.TotalChamados)
	assert.Equal(t, len(ds.Moradores), rep.TotalMoradores)

	resetFlags(rootCmd)
	out, err = execute(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Total de chamados:  "+strconv.Itoa(len(ds.Chamados)))
	assert.Contains(t, out, "Gastos por categoria")
	assert.Contains(t, out, "Chamados por status")
}

func TestAvisosCmd(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "avisos", "--raw", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "## Assembleia geral ordinária")
	assert.Contains(t, out, "18/05/2023")
	assert.NotContains(t, out, "caixa d'água")

	resetFlags(rootCmd)
	prev := renderMarkdown
	t.Cleanup(func() { renderMarkdown = prev })
	renderMarkdown = func(s string) (string, error) { return "rendered:" + s, nil }

	out, err = execute(t, "avisos")
	require.NoError(t, err)
	assert.True(t, len(out) > len("rendered:"))
	assert.Equal(t, "rendered:", out[:len("rendered:")])
	assert.Contains(t, out, "caixa d'água")
}

func TestBrowseCmd(t *testing.T) {
	setupCLI(t)

	var got tea.Model
	ui.SetStartProgramForTest(func(m tea.Model) error {
		got = m
		return nil
	})
	t.Cleanup(func() {
		ui.SetStartProgramForTest(func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		})
	})

	_, err := execute(t, "browse", "gastos")
	require.NoError(t, err)
	assert.NotNil(t, got)

	got = nil
	answers(t, map[string]string{"Which list do you want to browse?": "avisos"})
	_, err = execute(t, "browse")
	require.NoError(t, err)
	assert.NotNil(t, got)

	_, err = execute(t, "browse", "piscinas")
	assert.Error(t, err)
}

func TestMockConfig(t *testing.T) {
	mc := mockConfig(config.MockConfig{
		Enabled:          true,
		Delay:            50 * time.Millisecond,
		RandomErrors:     true,
		ErrorProbability: 0.5,
	})
	assert.True(t, mc.Enabled)
	assert.Equal(t, 50*time.Millisecond, mc.Delay)
	assert.True(t, mc.SimulateRandomErrors)
	assert.Equal(t, 0.5, mc.ErrorProbability)
	assert.Equal(t, mockapi.DefaultConfig().ErrorTypes, mc.ErrorTypes)
}

func TestInitConfig_InvalidExits(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONDO_PORT", "70000")

	prev := exit
	t.Cleanup(func() { exit = prev })
	code := 0
	exit = func(c int) { code = c }

	initConfig()
	assert.Equal(t, 1, code)
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRunServe(t *testing.T) {
	setupCLI(t)
	port := freePort(t)
	t.Setenv("CONDO_PORT", strconv.Itoa(port))
	require.NoError(t, config.Load(""))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, prometheus.NewRegistry()) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}
