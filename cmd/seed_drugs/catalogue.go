package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// columnas esperadas (en cualquier orden, sin distinguir mayúsculas)
const (
	colName       = "nombre"
	colIngredient = "principio_activo"
	colCategory   = "categoria"
	colMeat       = "retiro_carne_dias"
	colMilk       = "retiro_leche_dias"
	colMRL        = "lmr"
)

// catalogueRow fila válida del catálogo oficial.
type catalogueRow struct {
	drug entity.Drug
	line int
}

// decodeCatalogue devuelve el contenido en UTF-8. Si no es UTF-8 válido se asume ISO-8859-1.
func decodeCatalogue(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
	}
	return out, nil
}

// parseCatalogue lee el CSV (separador , o ;). Las filas inválidas se reportan en skipped y no detienen la lectura.
func parseCatalogue(data []byte) (rows []catalogueRow, skipped []string, err error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectComma(data)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colMeat, colMilk} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	seen := make(map[string]bool)
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		name := field(colName)
		if name == "" {
			skipped = append(skipped, fmt.Sprintf("línea %d: nombre vacío", line))
			continue
		}
		if seen[strings.ToLower(name)] {
			skipped = append(skipped, fmt.Sprintf("línea %d: %q repetido", line, name))
			continue
		}
		meat, errMeat := strconv.Atoi(field(colMeat))
		milk, errMilk := strconv.Atoi(field(colMilk))
		if errMeat != nil || errMilk != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: días de retiro no numéricos", line))
			continue
		}
		category := strings.ToLower(field(colCategory))
		if category == "" || !entity.IsDrugCategory(category) {
			category = entity.DrugCategoryOther
		}
		drug := entity.Drug{
			ID:                       uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(name))).String(),
			Name:                     name,
			ActiveIngredient:         field(colIngredient),
			Category:                 category,
			WithdrawalPeriodMeatDays: meat,
			WithdrawalPeriodMilkDays: milk,
			MRLLimit:                 field(colMRL),
		}
		if err := drug.Validate(); err != nil {
			skipped = append(skipped, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		seen[strings.ToLower(name)] = true
		rows = append(rows, catalogueRow{drug: drug, line: line})
	}
	return rows, skipped, nil
}

func detectComma(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// writeSQL escribe los INSERT con upsert por nombre.
func writeSQL(w io.Writer, source string, rows []catalogueRow) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de fármacos veterinarios con periodos de retiro\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	for _, r := range rows {
		d := r.drug
		fmt.Fprintf(&b,
			"INSERT INTO drugs (id, name, active_ingredient, category, withdrawal_period_meat_days, withdrawal_period_milk_days, mrl_limit)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %d, %d, '%s')\n",
			d.ID, escapeSQL(d.Name), escapeSQL(d.ActiveIngredient), d.Category,
			d.WithdrawalPeriodMeatDays, d.WithdrawalPeriodMilkDays, escapeSQL(d.MRLLimit))
		b.WriteString("ON CONFLICT (name) DO UPDATE SET\n" +
			"  active_ingredient = EXCLUDED.active_ingredient,\n" +
			"  category = EXCLUDED.category,\n" +
			"  withdrawal_period_meat_days = EXCLUDED.withdrawal_period_meat_days,\n" +
			"  withdrawal_period_milk_days = EXCLUDED.withdrawal_period_milk_days,\n" +
			"  mrl_limit = EXCLUDED.mrl_limit;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
