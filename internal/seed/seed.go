// Package seed makes a fresh installation usable out of the box by creating
// a default tenant with a baseline set of lookup values.
package seed

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	lookupdomain "github.com/opensigas/sigas/internal/lookup/domain"
	tenantdomain "github.com/opensigas/sigas/internal/tenant/domain"
)

var baselineLookups = map[string][]string{
	"categoria":        {"Ambiental", "Social", "Saúde e Segurança"},
	"area_actuacao":    {"Construção", "Operação", "Desmobilização"},
	"factor_ambiental": {"Água", "Ar", "Solo", "Ruído", "Biodiversidade"},
	"risco_impacto":    {"Erosão", "Contaminação", "Perda de Habitat"},
	"tipo_reclamacao":  {"Ruído", "Poeira", "Acesso à Terra", "Emprego", "Outro"},
}

// EnsureDefaultTenant creates the named tenant if it does not exist yet and
// seeds its lookup tables. Running it twice is a no-op.
func EnsureDefaultTenant(conn *gorm.DB, genID *snowflake.Node, slug, name string) error {
	if slug == "" {
		return errors.New("seed: default tenant slug is required")
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		var existing tenantdomain.Tenant
		err := tx.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		t := &tenantdomain.Tenant{
			ID:   genID.Generate(),
			Name: name,
			Slug: slug,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		for kind, names := range baselineLookups {
			for _, n := range names {
				row := &lookupdomain.Lookup{
					ID:   genID.Generate(),
					Kind: kind,
					Name: n,
				}
				row.SetTenant(t.ID)
				if err := tx.Create(row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
