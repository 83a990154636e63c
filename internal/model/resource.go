package model

import (
	"fmt"
	"strings"
)

// Resource names a collection of records in the store and in the API paths.
type Resource string

const (
	Usuarios  Resource = "usuarios"
	Chamados  Resource = "chamados"
	Gastos    Resource = "gastos"
	Moradores Resource = "moradores"
	Reservas  Resource = "reservas"
	Avisos    Resource = "avisos"
)

// Resources lists every known collection.
var Resources = []Resource{Usuarios, Chamados, Gastos, Moradores, Reservas, Avisos}

// Valid reports whether r is a known collection.
func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

func (r Resource) String() string { return string(r) }

// ParseResource resolves a path segment to a collection.
func ParseResource(s string) (Resource, error) {
	r := Resource(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown resource %q", s)
	}
	return r, nil
}

// Singular is the label used in user-facing messages.
func (r Resource) Singular() string {
	switch r {
	case Usuarios:
		return "Usuário"
	case Chamados:
		return "Chamado"
	case Gastos:
		return "Gasto"
	case Moradores:
		return "Morador"
	case Reservas:
		return "Reserva"
	case Avisos:
		return "Aviso"
	}
	return string(r)
}
