package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	apperrors "condo/internal/errors"
	"condo/internal/model"
)

var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Create a dashboard account",
	Long: `Creates a user who can sign in to the dashboard. Values not given as
flags are asked for; the password is always asked for.`,
	RunE: runUseradd,
}

func init() {
	rootCmd.AddCommand(useraddCmd)

	f := useraddCmd.Flags()
	f.String("nome", "", "Full name")
	f.String("email", "", "Sign-in e-mail")
	f.String("perfil", "", "Role: admin, sindico or morador")
	f.String("apartamento", "", "Apartment, for moradores")
	f.String("telefone", "", "Phone number")
}

type userAnswers struct {
	Nome        string
	Email       string
	Senha       string
	Perfil      string
	Apartamento string
	Telefone    string
}

func runUseradd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	var ans userAnswers
	ans.Nome, _ = f.GetString("nome")
	ans.Email, _ = f.GetString("email")
	ans.Perfil, _ = f.GetString("perfil")
	ans.Apartamento, _ = f.GetString("apartamento")
	ans.Telefone, _ = f.GetString("telefone")

	if err := askUser(&ans); err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	fields := map[string]any{
		"nome":     ans.Nome,
		"email":    ans.Email,
		"senha":    ans.Senha,
		"perfil":   ans.Perfil,
		"telefone": ans.Telefone,
	}
	if ans.Apartamento != "" {
		fields["apartamento"] = ans.Apartamento
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	created, err := a.api.Create(cmd.Context(), model.Usuarios, body)
	if err != nil {
		return describeError(err)
	}
	var u model.Usuario
	if err := json.Unmarshal(created, &u); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s) with id %s\n", u.Email, model.Label(model.Perfis, u.Perfil), u.ID)
	return nil
}

// askUser prompts for every answer still empty.
func askUser(ans *userAnswers) error {
	if ans.Nome == "" {
		if err := askOneFunc(&survey.Input{Message: "Nome:"}, &ans.Nome, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if ans.Email == "" {
		if err := askOneFunc(&survey.Input{Message: "E-mail:"}, &ans.Email, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}
	if err := askOneFunc(&survey.Password{Message: "Senha:"}, &ans.Senha, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	if ans.Perfil == "" {
		err := askOneFunc(&survey.Select{
			Message: "Perfil:",
			Options: model.Values(model.Perfis),
			Default: model.PerfilMorador,
		}, &ans.Perfil)
		if err != nil {
			return err
		}
	}
	if ans.Perfil == model.PerfilMorador && ans.Apartamento == "" {
		if err := askOneFunc(&survey.Input{Message: "Apartamento:"}, &ans.Apartamento); err != nil {
			return err
		}
	}
	return nil
}

// describeError spells out field errors of a rejected record.
func describeError(err error) error {
	var ae *apperrors.AppError
	if !errors.As(err, &ae) || len(ae.Fields) == 0 {
		return err
	}
	msg := ae.Message
	for _, k := range slices.Sorted(maps.Keys(ae.Fields)) {
		msg += fmt.Sprintf("\n  %s: %s", k, ae.Fields[k])
	}
	return errors.New(msg)
}
