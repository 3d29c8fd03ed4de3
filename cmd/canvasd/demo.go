package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"canvasd/internal/canvas"
	"canvasd/internal/config"
	"canvasd/internal/domain"
	"canvasd/internal/gesture"
	"canvasd/internal/repository/sqlite"
	"canvasd/internal/service"
	"canvasd/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type demoOptions struct {
	extra int
}

func demoCmd() *cobra.Command {
	var opts demoOptions
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted drag session and print node positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.extra, "extra", 1, "Additional nodes to add after the first two")
	return cmd
}

// demoStep is one scripted gesture: a pointer-down at origin followed by
// events
type demoStep struct {
	title  string
	node   int
	origin gesture.Point
	events []gesture.Event
}

func move(x, y float64) gesture.Event {
	return gesture.Event{Kind: gesture.KindMove, Point: gesture.Point{X: x, Y: y}}
}

func runDemo(ctx context.Context, w io.Writer, opts demoOptions) error {
	if opts.extra < 0 {
		return fmt.Errorf("extra must not be negative, got %d", opts.extra)
	}

	journal, err := sqlite.New(":memory:")
	if err != nil {
		return err
	}
	defer journal.Close()

	svc := service.NewCanvasService(service.SettingsFromConfig(config.DefaultConfig()), journal, nil, nil, zap.NewNop())
	defer svc.Close()

	summary, err := svc.CreateCanvas(service.CreateCanvasRequest{})
	if err != nil {
		return err
	}

	ui.Banner(w, "scripted drag session")
	ui.Field(w, "Canvas", fmt.Sprintf("%s (%dx%d, %s)", summary.ID, summary.Width, summary.Height, summary.Background))
	fmt.Fprintln(w)

	var ids []domain.NodeID
	for i := 0; i < 2+opts.extra; i++ {
		view, err := svc.NewNode(summary.ID)
		if err != nil {
			return err
		}
		ids = append(ids, view.ID)
	}

	up := gesture.Event{Kind: gesture.KindUp}
	steps := []demoStep{
		{"drag node 1 by (12,3)", 0, gesture.Point{X: 100, Y: 100},
			[]gesture.Event{move(105, 105), move(112, 103), move(112, 103), up}},
		{"drag node 2 by (40,-10)", 1, gesture.Point{X: 300, Y: 300},
			[]gesture.Event{move(340, 290), up}},
		{"drag node 2 again by (5,5)", 1, gesture.Point{X: 0, Y: 0},
			[]gesture.Event{move(5, 5), up}},
		{"drag node 1 then lose focus", 0, gesture.Point{X: 10, Y: 10},
			[]gesture.Event{move(60, 60), {Kind: gesture.KindBlur}}},
	}
	if len(ids) > 2 {
		steps = append(steps, demoStep{"click node 3 without moving", 2, gesture.Point{X: 7, Y: 7},
			[]gesture.Event{up}})
	}

	for _, step := range steps {
		if _, err := svc.BeginDrag(summary.ID, ids[step.node], step.origin); err != nil {
			return err
		}
		for _, ev := range step.events {
			if _, err := svc.Pointer(summary.ID, string(ev.Kind), ev.Point); err != nil {
				return err
			}
		}
		view, err := svc.GetNode(summary.ID, ids[step.node])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s %-30s %s\n", ui.StatusIcon(!view.Dragging), step.title, ui.Info.Sprint(formatPosition(view.Position)))
	}
	fmt.Fprintln(w)

	views, err := svc.ListNodes(summary.ID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(views))
	for i, v := range views {
		rows = append(rows, []string{strconv.Itoa(i + 1), v.ID.String(), formatPosition(v.Position), storedLabel(summary.ID, v, svc)})
	}
	ui.Table(w, []string{"#", "NODE", "POSITION", "STORED"}, rows)
	fmt.Fprintln(w)

	moves, err := svc.Moves(ctx, summary.ID, 0)
	if err != nil {
		return err
	}
	ui.Field(w, "Committed", fmt.Sprintf("%d moves", len(moves)))
	return nil
}

// storedLabel reports whether the node has an entry in the position store
func storedLabel(canvasID string, v canvas.View, svc *service.CanvasService) string {
	c, err := svc.Canvas(canvasID)
	if err != nil || !c.State().Has(v.ID) {
		return ui.Subtle.Sprint("no entry")
	}
	return "yes"
}

func formatPosition(p domain.Position) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
