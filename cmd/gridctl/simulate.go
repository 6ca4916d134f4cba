package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

type simulateCmd struct {
	Scenario string `arg:"" type:"existingfile" help:"YAML scenario to replay."`
	FailFast bool   `name:"fail-fast" help:"Stop at the first rejected step."`
}

// scenario describes a canvas and the steps replayed against it.
type scenario struct {
	Rows      int      `yaml:"rows"`
	Cols      int      `yaml:"cols"`
	Seed      bool     `yaml:"seed"`
	Manifests []string `yaml:"manifests"`
	Steps     []step   `yaml:"steps"`
}

// step carries exactly one of Place, Move, Remove or Preview.
type step struct {
	Place    string         `yaml:"place"`
	Move     string         `yaml:"move"`
	Remove   string         `yaml:"remove"`
	Preview  string         `yaml:"preview"`
	ID       string         `yaml:"id"`
	Cell     int            `yaml:"cell"`
	Metadata map[string]any `yaml:"metadata"`
}

const simulatedCanvas = "simulation"

var errStepRejected = errors.New("gridctl: scenario step rejected")

func (cmd *simulateCmd) Run(ctx context.Context) error {
	file, err := os.Open(cmd.Scenario)
	if err != nil {
		return fmt.Errorf("gridctl: open scenario: %w", err)
	}
	defer file.Close()
	sc, err := decodeScenario(file)
	if err != nil {
		return fmt.Errorf("gridctl: scenario %s: %w", cmd.Scenario, err)
	}
	return runScenario(ctx, sc, os.Stdout, cmd.FailFast)
}

func decodeScenario(r io.Reader) (scenario, error) {
	var sc scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return sc, err
	}
	for i, st := range sc.Steps {
		if _, _, err := st.operation(); err != nil {
			return sc, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sc, nil
}

func (st step) operation() (string, string, error) {
	var op, subject string
	count := 0
	for _, candidate := range []struct{ op, value string }{
		{"place", st.Place},
		{"move", st.Move},
		{"remove", st.Remove},
		{"preview", st.Preview},
	} {
		if candidate.value == "" {
			continue
		}
		count++
		op, subject = candidate.op, candidate.value
	}
	if count != 1 {
		return "", "", errors.New("needs exactly one of place, move, remove or preview")
	}
	return op, subject, nil
}

// runScenario replays sc against a fresh in-memory canvas and writes the
// canvas after every step. Rejected steps are reported and the replay goes on
// unless failFast is set.
func runScenario(ctx context.Context, sc scenario, out io.Writer, failFast bool) error {
	registry := dashboard.NewRegistry()
	for _, path := range sc.Manifests {
		if _, err := registry.LoadManifestFile(path); err != nil {
			return err
		}
	}
	service := dashboard.NewService(dashboard.Options{
		Catalog:           registry,
		MetadataValidator: dashboard.NewJSONSchemaValidator(),
	})
	layout, err := service.CreateCanvas(ctx, dashboard.CreateCanvasRequest{
		CanvasID: simulatedCanvas,
		Rows:     sc.Rows,
		Cols:     sc.Cols,
	})
	if err != nil {
		return err
	}
	if sc.Seed {
		if err := dashboard.SeedCanvas(ctx, service, simulatedCanvas, nil); err != nil {
			return err
		}
		if layout, err = service.Layout(ctx, simulatedCanvas); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "# start (%dx%d, version %d)\n%s", layout.Grid.Rows, layout.Grid.Cols, layout.Version, dashboard.FormatLayout(layout))

	rejected := 0
	for i, st := range sc.Steps {
		op, subject, _ := st.operation()
		fmt.Fprintf(out, "\n# step %d: %s %s", i+1, op, subject)
		if op != "remove" {
			fmt.Fprintf(out, " at %d", st.Cell)
		}
		fmt.Fprintln(out)

		switch op {
		case "place":
			layout, err = service.PlaceWidget(ctx, dashboard.PlaceWidgetRequest{
				CanvasID:       simulatedCanvas,
				DefinitionCode: subject,
				WidgetID:       st.ID,
				Cell:           st.Cell,
				Metadata:       st.Metadata,
			})
		case "move":
			layout, err = service.PlaceWidget(ctx, dashboard.PlaceWidgetRequest{
				CanvasID: simulatedCanvas,
				WidgetID: subject,
				Cell:     st.Cell,
			})
		case "remove":
			layout, err = service.RemoveWidget(ctx, simulatedCanvas, subject)
		case "preview":
			err = writePreview(ctx, service, subject, st, out)
		}
		if err != nil {
			rejected++
			fmt.Fprintf(out, "rejected: %v\n", err)
			if failFast {
				return fmt.Errorf("%w: step %d: %w", errStepRejected, i+1, err)
			}
			continue
		}
		if op != "preview" {
			fmt.Fprintf(out, "version %d\n%s", layout.Version, dashboard.FormatLayout(layout))
		}
	}
	if rejected > 0 {
		fmt.Fprintf(out, "\n%d of %d steps rejected\n", rejected, len(sc.Steps))
	}
	return nil
}

// writePreview treats subject as a widget id when the canvas holds one,
// otherwise as a definition code.
func writePreview(ctx context.Context, service *dashboard.Service, subject string, st step, out io.Writer) error {
	req := dashboard.PreviewRequest{CanvasID: simulatedCanvas, Cell: st.Cell}
	current, err := service.Layout(ctx, simulatedCanvas)
	if err != nil {
		return err
	}
	if _, ok := current.Widget(subject); ok {
		req.WidgetID = subject
	} else {
		req.DefinitionCode = subject
		req.WidgetID = st.ID
	}
	preview, err := service.Preview(ctx, req)
	if err != nil {
		return err
	}
	if !preview.Valid {
		fmt.Fprintf(out, "preview invalid: %s\n", preview.Reason)
		return nil
	}
	if preview.Plan.Empty() {
		fmt.Fprintln(out, "preview valid: target is free")
		return nil
	}
	moves := make([]string, 0, len(preview.Plan.Moves))
	for _, m := range preview.Plan.Moves {
		moves = append(moves, fmt.Sprintf("%s %d->%d", m.WidgetID, m.From, m.To))
	}
	fmt.Fprintf(out, "preview valid: %s\n", strings.Join(moves, ", "))
	return nil
}
