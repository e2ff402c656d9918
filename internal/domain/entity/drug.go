package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
)

// Categorías de fármaco veterinario.
const (
	DrugCategoryAntibiotic       = "antibiotico"
	DrugCategoryAntiparasitic    = "antiparasitario"
	DrugCategoryAntiInflammatory = "antiinflamatorio"
	DrugCategoryVaccine          = "vacuna"
	DrugCategorySupplement       = "suplemento"
	DrugCategoryVitamin          = "vitamina"
	DrugCategoryHormonal         = "hormonal"
	DrugCategoryOther            = "otro"
)

// Drug representa un fármaco del catálogo con sus periodos de retiro por producto.
// Los periodos se copian al evento de administración; editar el fármaco no altera el historial.
type Drug struct {
	ID                       string
	Name                     string
	ActiveIngredient         string
	Category                 string
	WithdrawalPeriodMeatDays int
	WithdrawalPeriodMilkDays int
	MRLLimit                 string // límite máximo de residuos, informativo
	CreatedAt                time.Time
}

// Validate rechaza nombres vacíos, categorías desconocidas y periodos negativos.
func (d *Drug) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return domain.ErrInvalidInput
	}
	if d.WithdrawalPeriodMeatDays < 0 || d.WithdrawalPeriodMilkDays < 0 {
		return domain.ErrInvalidInput
	}
	if d.Category != "" && !IsDrugCategory(d.Category) {
		return domain.ErrInvalidInput
	}
	return nil
}

// IsDrugCategory indica si c es una categoría conocida.
func IsDrugCategory(c string) bool {
	switch c {
	case DrugCategoryAntibiotic, DrugCategoryAntiparasitic, DrugCategoryAntiInflammatory,
		DrugCategoryVaccine, DrugCategorySupplement, DrugCategoryVitamin,
		DrugCategoryHormonal, DrugCategoryOther:
		return true
	}
	return false
}
