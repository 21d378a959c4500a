package constants

type Category string

const (
	Construccion  Category = "Construcción"
	Servicios     Category = "Servicios"
	Suministros   Category = "Suministros"
	Equipos       Category = "Equipos"
	Mantenimiento Category = "Mantenimiento"
	Unclassified  Category = "No clasificado"
)

var allCategories = []Category{
	Construccion,
	Servicios,
	Suministros,
	Equipos,
	Mantenimiento,
	Unclassified,
}

// AllCategories returns the taxonomy in display order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}
