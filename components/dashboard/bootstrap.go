package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterDefinitions registers the built-in widget definitions in catalog.
func RegisterDefinitions(catalog Catalog) error {
	if catalog == nil {
		return errors.New("dashboard: catalog is required to register definitions")
	}
	for _, def := range DefaultWidgetDefinitions() {
		if err := catalog.RegisterDefinition(def); err != nil {
			return fmt.Errorf("register definition %s: %w", def.Code, err)
		}
	}
	return nil
}

// SeedCanvas places starter widgets on an existing canvas. A nil placements
// slice selects DefaultSeedPlacements. Each placement goes through the same
// relocation rules as a user drop, so a failed placement is skipped and
// reported while the rest still land.
func SeedCanvas(ctx context.Context, service *Service, canvasID string, placements []SeedPlacement) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed a canvas")
	}
	if placements == nil {
		placements = DefaultSeedPlacements()
	}
	var seedErr error
	for _, p := range placements {
		_, err := service.PlaceWidget(ctx, PlaceWidgetRequest{
			CanvasID:       canvasID,
			DefinitionCode: p.DefinitionCode,
			WidgetID:       p.WidgetID,
			Cell:           p.Cell,
			Metadata:       p.Metadata,
		})
		if err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed %s at %d: %w", p.DefinitionCode, p.Cell, err))
		}
	}
	return seedErr
}
