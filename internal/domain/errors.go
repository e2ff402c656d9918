package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Taxonomía del motor de retiro y cumplimiento.
	ErrInvalidEvent     = errors.New("evento de administración inválido")
	ErrUnknownReference = errors.New("referencia desconocida")
	ErrConfiguration    = errors.New("configuración inválida")
)

// InvalidEventError se devuelve cuando un evento de administración no puede registrarse
// (días de retiro negativos, fecha ausente o posterior al reloj del ledger).
type InvalidEventError struct {
	Field  string
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("evento inválido: %s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrInvalidEvent).
func (e *InvalidEventError) Is(target error) bool { return target == ErrInvalidEvent }

// UnknownReferenceError indica que un id de fármaco, animal, lote o finca no existe en los datos de consulta.
type UnknownReferenceError struct {
	Kind string // drug, animal, batch, farm
	ID   string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("referencia desconocida: %s %q", e.Kind, e.ID)
}

// Is permite errors.Is(err, ErrUnknownReference).
func (e *UnknownReferenceError) Is(target error) bool { return target == ErrUnknownReference }

// ConfigurationError indica pesos o umbrales de la política de cumplimiento negativos o ausentes.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuración inválida: %s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
