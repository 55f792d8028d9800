package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/envcast/internal/cli"
	"github.com/theirongolddev/envcast/internal/config"
	"github.com/theirongolddev/envcast/internal/model"
)

var scenarioCmd = &cobra.Command{
	Use:     "scenario",
	Aliases: []string{"scenarios"},
	Short:   "Manage what-if scenarios",
	RunE:    runScenarioList,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios in the settings file",
	RunE:  runScenarioList,
}

var scenarioAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a scenario (interactive without --target)",
	RunE:  runScenarioAdd,
}

var scenarioRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioRemove,
}

var scenarioEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return setScenarioEnabled(args[0], true) },
}

var scenarioDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a scenario without removing it",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return setScenarioEnabled(args[0], false) },
}

// Scenario kinds accepted by --kind.
const (
	kindTransaction    = "transaction"
	kindSubTransaction = "sub"
	kindProjected      = "projected"
)

// scenarioInput holds the answers of the add form or its flags. Amount
// stays a string until the kind decides whether it is money or percent.
type scenarioInput struct {
	Kind      string
	Target    string
	Account   string
	Begin     string
	End       string
	Frequency string
	Amount    string
	Exact     bool
	Days      string
	Disabled  bool
}

var addInput scenarioInput

func init() {
	f := scenarioAddCmd.Flags()
	f.StringVar(&addInput.Kind, "kind", kindTransaction, "Scenario kind: transaction, sub or projected")
	f.StringVar(&addInput.Target, "target", "", "Scheduled transaction id, split line id, or category id for projected spending")
	f.StringVar(&addInput.Account, "account", "", "Account for projected spending (defaults to the first on-budget account)")
	f.StringVar(&addInput.Begin, "begin", "", "First date the change applies (YYYY-MM-DD)")
	f.StringVar(&addInput.End, "end", "", "Last date the change applies (YYYY-MM-DD, optional)")
	f.StringVar(&addInput.Frequency, "frequency", string(model.Never), "How often the change compounds")
	f.StringVar(&addInput.Amount, "amount", "", "Change per step: money with --exact, otherwise a percentage")
	f.BoolVar(&addInput.Exact, "exact", false, "Treat --amount as money rather than a percentage")
	f.StringVar(&addInput.Days, "days", "", "Days of the month for projected spending, comma separated")
	f.BoolVar(&addInput.Disabled, "disabled", false, "Add the scenario disabled")

	scenarioCmd.AddCommand(scenarioListCmd, scenarioAddCmd, scenarioRemoveCmd, scenarioEnableCmd, scenarioDisableCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioList(_ *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}

	total := len(s.TransactionScenarios) + len(s.SubTransactionScenarios) + len(s.ProjectedSpending)
	if total == 0 {
		fmt.Printf("\n  No scenarios in %s\n", flagSettings)
		fmt.Println("  Add one with `envcast scenario add`.")
		return nil
	}

	var rows [][]string
	for _, sc := range s.TransactionScenarios {
		rows = append(rows, []string{sc.ID, kindTransaction, sc.ScheduledTransactionID,
			scenarioWindow(sc.BeginDate, sc.EndDate), string(sc.Frequency),
			scenarioAmount(sc.Amount, sc.IsExactAmount), enabledMark(sc.IsEnabled)})
	}
	for _, sc := range s.SubTransactionScenarios {
		rows = append(rows, []string{sc.ID, kindSubTransaction, sc.ScheduledSubTransactionID,
			scenarioWindow(sc.BeginDate, sc.EndDate), string(sc.Frequency),
			scenarioAmount(sc.Amount, sc.IsExactAmount), enabledMark(sc.IsEnabled)})
	}
	for _, p := range s.ProjectedSpending {
		days := make([]string, len(p.Days))
		for i, d := range p.Days {
			days[i] = strconv.Itoa(d)
		}
		amount := cli.FormatMoney(p.Amount)
		if !p.IsExactAmount {
			amount += " (avg)"
		}
		rows = append(rows, []string{p.ID, kindProjected, p.CategoryID,
			"days " + strings.Join(days, ","), "monthly", amount, enabledMark(p.IsEnabled)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Scenarios (%s)", flagSettings),
		Headers:  []string{"ID", "Kind", "Target", "When", "Frequency", "Change", "On"},
		Rows:     rows,
		LeftCols: 5,
	}))
	return nil
}

func scenarioWindow(begin, end time.Time) string {
	if end.IsZero() {
		return "from " + cli.FormatDate(begin)
	}
	return cli.FormatDate(begin) + " → " + cli.FormatDate(end)
}

func scenarioAmount(amount int64, exact bool) string {
	if exact {
		return cli.FormatSigned(amount)
	}
	return cli.FormatPerMille(amount)
}

func enabledMark(on bool) string {
	if on {
		return "yes"
	}
	return "no"
}

func runScenarioAdd(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}

	in := addInput
	if in.Target == "" {
		if err := scenarioForm(&in).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	id, err := addScenario(&s, in)
	if err != nil {
		return err
	}
	if err := config.SaveSettings(flagSettings, s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Added scenario %s to %s\n", id, flagSettings)
	return nil
}

// addScenario validates in and appends the scenario it describes to s.
func addScenario(s *model.Settings, in scenarioInput) (string, error) {
	if strings.TrimSpace(in.Target) == "" {
		return "", errors.New("a target is required")
	}
	id := uuid.NewString()

	if in.Kind == kindProjected {
		days, err := parseDays(in.Days)
		if err != nil {
			return "", err
		}
		amount, err := cli.ParseMoney(in.Amount)
		if err != nil {
			return "", err
		}
		s.ProjectedSpending = append(s.ProjectedSpending, model.ProjectedSpendingScenario{
			ID:            id,
			CategoryID:    in.Target,
			AccountID:     in.Account,
			Days:          days,
			Amount:        amount,
			IsExactAmount: in.Exact,
			IsEnabled:     !in.Disabled,
		})
		return id, nil
	}

	begin, err := time.Parse(time.DateOnly, in.Begin)
	if err != nil {
		return "", fmt.Errorf("begin date: %w", err)
	}
	end, err := parseOptionalDate("end", in.End)
	if err != nil {
		return "", err
	}
	if !end.IsZero() && end.Before(begin) {
		return "", errors.New("end date is before the begin date")
	}
	freq, err := model.ParseFrequency(in.Frequency)
	if err != nil {
		return "", err
	}

	var amount int64
	if in.Exact {
		amount, err = cli.ParseMoney(in.Amount)
	} else {
		amount, err = cli.ParsePercent(in.Amount)
	}
	if err != nil {
		return "", err
	}

	switch in.Kind {
	case kindTransaction:
		s.TransactionScenarios = append(s.TransactionScenarios, model.TransactionScenario{
			ID:                     id,
			ScheduledTransactionID: in.Target,
			BeginDate:              begin,
			EndDate:                end,
			Frequency:              freq,
			Amount:                 amount,
			IsExactAmount:          in.Exact,
			IsEnabled:              !in.Disabled,
		})
	case kindSubTransaction:
		s.SubTransactionScenarios = append(s.SubTransactionScenarios, model.SubTransactionScenario{
			ID:                        id,
			ScheduledSubTransactionID: in.Target,
			BeginDate:                 begin,
			EndDate:                   end,
			Frequency:                 freq,
			Amount:                    amount,
			IsExactAmount:             in.Exact,
			IsEnabled:                 !in.Disabled,
		})
	default:
		return "", fmt.Errorf("unknown scenario kind %q", in.Kind)
	}
	return id, nil
}

func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 1 || d > 31 {
			return nil, fmt.Errorf("invalid day of month %q", part)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, errors.New("projected spending needs at least one day")
	}
	return days, nil
}

func scenarioForm(in *scenarioInput) *huh.Form {
	freqOpts := make([]huh.Option[string], len(model.Frequencies))
	for i, f := range model.Frequencies {
		freqOpts[i] = huh.NewOption(string(f), string(f))
	}
	if in.Begin == "" {
		in.Begin = time.Now().Format(time.DateOnly)
	}
	isProjected := func() bool { return in.Kind == kindProjected }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Scenario kind").
				Options(
					huh.NewOption("Change a scheduled transaction", kindTransaction),
					huh.NewOption("Change one split line", kindSubTransaction),
					huh.NewOption("Project spending for a category", kindProjected),
				).
				Value(&in.Kind),
			huh.NewInput().
				Title("Target id").
				Description("Scheduled transaction, split line, or category id").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("required")
					}
					return nil
				}).
				Value(&in.Target),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Begin date").
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}).
				Value(&in.Begin),
			huh.NewInput().
				Title("End date (optional)").
				Value(&in.End),
			huh.NewSelect[string]().
				Title("Compounds").
				Options(freqOpts...).
				Value(&in.Frequency),
		).WithHideFunc(isProjected),
		huh.NewGroup(
			huh.NewInput().
				Title("Days of the month").
				Placeholder("1,15").
				Validate(func(s string) error {
					_, err := parseDays(s)
					return err
				}).
				Value(&in.Days),
		).WithHideFunc(func() bool { return !isProjected() }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Fixed amount?").
				Description("Yes for money, no for a percentage change").
				Value(&in.Exact),
			huh.NewInput().
				Title("Amount").
				Value(&in.Amount),
		),
	).WithTheme(huh.ThemeBase16())
}

func runScenarioRemove(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}
	if !config.RemoveScenario(&s, args[0]) {
		return fmt.Errorf("no scenario with id %q", args[0])
	}
	if err := config.SaveSettings(flagSettings, s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Removed scenario %s\n", args[0])
	return nil
}

func setScenarioEnabled(id string, enabled bool) error {
	s, err := config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}
	if !config.SetScenarioEnabled(&s, id, enabled) {
		return fmt.Errorf("no scenario with id %q", id)
	}
	if err := config.SaveSettings(flagSettings, s); err != nil {
		return err
	}
	state := "Disabled"
	if enabled {
		state = "Enabled"
	}
	fmt.Printf("  %s scenario %s\n", state, id)
	return nil
}
