package sessions

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"tradeconsole/src/connectors"
	"tradeconsole/src/model"
	"tradeconsole/src/registry"
)

// Lister prints the engine's session registry for one trading mode.
type Lister struct {
	Mode string
}

func (l *Lister) Start() error {
	config := GetConfig()

	mode := model.TradingMode(l.Mode)
	if mode != model.ModePaper && mode != model.ModeLive {
		return fmt.Errorf("mode %q not supported, use PAPER or LIVE", l.Mode)
	}

	client := connectors.NewEngineClient(config.EngineURL)
	reg := registry.NewRegistry(client, mode, nil)

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	if err := reg.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	listing := reg.Sessions()
	if len(listing) == 0 {
		fmt.Printf("No %s sessions.\n", mode)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Status", "Created"})

	for _, s := range listing {
		table.Append([]string{
			fmt.Sprintf("%d", s.ID),
			s.Name,
			string(s.Status),
			s.CreatedAt.Format(time.RFC3339),
		})
	}

	table.Render()
	return nil
}
