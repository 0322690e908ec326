package domain

import (
	"fmt"
	"strings"
)

// ImpedanceColumn heads every report table.
const ImpedanceColumn = "Impedance(Ω)"

// Schema is the ordered list of output columns a model produces.
type Schema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Built-in schemas of the deployed dashboards.
var (
	// SchemaUltisol21 is the column set of the ultisol soil models.
	SchemaUltisol21 = Schema{
		Name: "ultisol-21",
		Columns: []string{
			"Mg(%)", "Al(%)", "Si(%)", "Fe(%)", "S(%)", "Cl(%)", "K(%)", "Ca(%)", "Ti(%)", "Zn(%)",
			"Zr(%)", "Ni(%)", "Ga(%)", "Ta(%)", "V(%)", "Cr(%)", "Mn(%)", "C(%)", "P(%)", "N(%)", "pH(%)",
		},
	}

	// SchemaKesuburan21 is the ultisol column set as labelled by the
	// original fertility dashboard, with carbon and phosphorus in lower case.
	SchemaKesuburan21 = Schema{
		Name: "kesuburan-21",
		Columns: []string{
			"Mg(%)", "Al(%)", "Si(%)", "Fe(%)", "S(%)", "Cl(%)", "K(%)", "Ca(%)", "Ti(%)", "Zn(%)",
			"Zr(%)", "Ni(%)", "Ga(%)", "Ta(%)", "V(%)", "Cr(%)", "Mn(%)", "c(%)", "p(%)", "N(%)", "pH(%)",
		},
	}

	// SchemaRF21 is the column set of the random forest model, which swaps P for Rh.
	SchemaRF21 = Schema{
		Name: "rf-21",
		Columns: []string{
			"Mg(%)", "Al(%)", "Si(%)", "Fe(%)", "S(%)", "Cl(%)", "K(%)", "Ca(%)", "Ti(%)", "Zn(%)",
			"Zr(%)", "Ni(%)", "Ga(%)", "Mn(%)", "Cr(%)", "Rh(%)", "Ta(%)", "V(%)", "C(%)", "N(%)", "pH",
		},
	}

	// SchemaBasic13 covers the major elements only.
	SchemaBasic13 = Schema{
		Name: "basic-13",
		Columns: []string{
			"Mg(%)", "Al(%)", "Si(%)", "Fe(%)", "S(%)", "Cl(%)", "K(%)", "Ca(%)", "Ti(%)", "Zn(%)",
			"C(%)", "N(%)", "pH",
		},
	}
)

// builtinSchemas holds private copies so callers writing into the exported
// vars cannot change what LookupSchema returns.
var builtinSchemas = map[string]Schema{
	SchemaUltisol21.Name:   SchemaUltisol21.Clone(),
	SchemaKesuburan21.Name: SchemaKesuburan21.Clone(),
	SchemaRF21.Name:        SchemaRF21.Clone(),
	SchemaBasic13.Name:     SchemaBasic13.Clone(),
}

// LookupSchema returns a copy of a built-in schema.
func LookupSchema(name string) (Schema, bool) {
	s, ok := builtinSchemas[name]
	if !ok {
		return Schema{}, false
	}
	return s.Clone(), true
}

// BuiltinSchemaNames lists the names accepted by LookupSchema.
func BuiltinSchemaNames() []string {
	return []string{SchemaBasic13.Name, SchemaUltisol21.Name, SchemaKesuburan21.Name, SchemaRF21.Name}
}

// Len returns the number of predicted columns.
func (s Schema) Len() int {
	return len(s.Columns)
}

// Clone returns a schema that shares no memory with s.
func (s Schema) Clone() Schema {
	cols := make([]string, len(s.Columns))
	copy(cols, s.Columns)
	return Schema{Name: s.Name, Columns: cols}
}

// Validate checks that the schema has at least one unique, non-empty column.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for i, c := range s.Columns {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: column %d is empty", ErrInvalidSchema, i)
		}
		if c == ImpedanceColumn {
			return fmt.Errorf("%w: %q is reserved", ErrInvalidSchema, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
