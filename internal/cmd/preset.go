package cmd

import (
	"fmt"

	"simplerename/internal/config"

	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage named rule presets",
	Long: `Presets store an ordered rule list under a name so frequently used
pipelines can be recalled with --preset instead of repeating flags.`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := config.LoadPresets()
		if err != nil {
			return err
		}
		if len(presets.Presets) == 0 {
			fmt.Println("No presets saved.")
			return nil
		}
		for _, p := range presets.Presets {
			fmt.Printf("%s:\n", p.Name)
			for i, r := range p.Rules {
				fmt.Printf("  %d. %s\n", i+1, r.Describe())
			}
		}
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the rules given by flags as a named preset",
	Long: `Build a rule pipeline from the usual rule flags (--prefix, --find,
--number, and friends) and store it under the given name. An existing
preset of the same name is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := buildRules()
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			return fmt.Errorf("no rule flags given, nothing to save")
		}
		presets, err := config.LoadPresets()
		if err != nil {
			return err
		}
		presets.Set(config.Preset{Name: args[0], Rules: rules})
		if err := presets.Save(); err != nil {
			return err
		}
		fmt.Printf("Saved preset %q with %d rule(s)\n", args[0], len(rules))
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := config.LoadPresets()
		if err != nil {
			return err
		}
		if !presets.Delete(args[0]) {
			return fmt.Errorf("preset %q not found", args[0])
		}
		if err := presets.Save(); err != nil {
			return err
		}
		fmt.Printf("Deleted preset %q\n", args[0])
		return nil
	},
}

func init() {
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	rootCmd.AddCommand(presetCmd)
}
