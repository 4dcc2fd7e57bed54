/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/radtran/internal/config"
	"github.com/valpere/radtran/internal/sheet"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List worksheet tabs and their translation progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if cfg.Google.SpreadsheetID == "" {
			return fmt.Errorf("google.spreadsheet_id is required")
		}

		ctx := context.Background()

		store, err := sheet.NewClient(ctx, cfg.Google.Credentials, cfg.Google.SpreadsheetID, sheet.Columns{
			Speaker:         cfg.Google.SpeakerCol,
			SourcePrimary:   cfg.Google.SourceCol,
			SourceSecondary: cfg.Google.GlossCol,
			Target:          cfg.Google.TargetCol,
			HeaderRows:      cfg.Google.HeaderRows,
		})
		if err != nil {
			return err
		}

		titles, err := store.ListSheets(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TAB\tROWS\tTRANSLATED")
		for _, title := range titles {
			rows, err := store.ListRows(ctx, title)
			if err != nil {
				fmt.Fprintf(w, "%s\t-\t(unreadable: %v)\n", title, err)
				continue
			}
			translated := 0
			for _, r := range rows {
				if r.Translated() {
					translated++
				}
			}
			fmt.Fprintf(w, "%s\t%d\t%d\n", title, len(rows), translated)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}
