package source

// RawEnvelope is the response wrapper of the budgeting service's full
// budget export: {"data":{"budget":{...},"server_knowledge":N}}.
type RawEnvelope struct {
	Data *struct {
		Budget          *RawBudget `json:"budget"`
		ServerKnowledge int64      `json:"server_knowledge"`
	} `json:"data"`
}

// RawBudget is one exported budget.
type RawBudget struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	LastModifiedOn string             `json:"last_modified_on"`
	FirstMonth     string             `json:"first_month"`
	LastMonth      string             `json:"last_month"`
	DateFormat     *RawDateFormat     `json:"date_format,omitempty"`
	CurrencyFormat *RawCurrencyFormat `json:"currency_format,omitempty"`

	Accounts                 []RawAccount                 `json:"accounts"`
	Payees                   []RawPayee                   `json:"payees"`
	PayeeLocations           []RawPayeeLocation           `json:"payee_locations"`
	CategoryGroups           []RawCategoryGroup           `json:"category_groups"`
	Categories               []RawCategory                `json:"categories"`
	Months                   []RawMonth                   `json:"months"`
	Transactions             []RawTransaction             `json:"transactions"`
	SubTransactions          []RawSubTransaction          `json:"subtransactions"`
	ScheduledTransactions    []RawScheduledTransaction    `json:"scheduled_transactions"`
	ScheduledSubTransactions []RawScheduledSubTransaction `json:"scheduled_subtransactions"`
}

// RawDateFormat holds the user's preferred date layout.
type RawDateFormat struct {
	Format string `json:"format"`
}

// RawCurrencyFormat describes how amounts are displayed.
type RawCurrencyFormat struct {
	ISOCode          string `json:"iso_code"`
	ExampleFormat    string `json:"example_format"`
	DecimalDigits    int    `json:"decimal_digits"`
	DecimalSeparator string `json:"decimal_separator"`
	SymbolFirst      bool   `json:"symbol_first"`
	GroupSeparator   string `json:"group_separator"`
	CurrencySymbol   string `json:"currency_symbol"`
	DisplaySymbol    bool   `json:"display_symbol"`
}

type RawAccount struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	OnBudget         bool   `json:"on_budget"`
	Closed           bool   `json:"closed"`
	Note             string `json:"note"`
	Balance          int64  `json:"balance"`
	ClearedBalance   int64  `json:"cleared_balance"`
	UnclearedBalance int64  `json:"uncleared_balance"`
	TransferPayeeID  string `json:"transfer_payee_id"`
	Deleted          bool   `json:"deleted"`
}

type RawPayee struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TransferAccountID string `json:"transfer_account_id"`
	Deleted           bool   `json:"deleted"`
}

type RawPayeeLocation struct {
	ID        string `json:"id"`
	PayeeID   string `json:"payee_id"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Deleted   bool   `json:"deleted"`
}

type RawCategoryGroup struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

// RawCategory carries the goal fields flattened, as the service sends them.
type RawCategory struct {
	ID                      string `json:"id"`
	CategoryGroupID         string `json:"category_group_id"`
	OriginalCategoryGroupID string `json:"original_category_group_id"`
	Name                    string `json:"name"`
	Hidden                  bool   `json:"hidden"`
	Note                    string `json:"note"`
	Budgeted                int64  `json:"budgeted"`
	Activity                int64  `json:"activity"`
	Balance                 int64  `json:"balance"`
	GoalType                string `json:"goal_type"`
	GoalCreationMonth       string `json:"goal_creation_month"`
	GoalTarget              int64  `json:"goal_target"`
	GoalTargetMonth         string `json:"goal_target_month"`
	GoalPercentageComplete  int    `json:"goal_percentage_complete"`
	Deleted                 bool   `json:"deleted"`
}

type RawMonth struct {
	Month        string        `json:"month"`
	Note         string        `json:"note"`
	Income       int64         `json:"income"`
	Budgeted     int64         `json:"budgeted"`
	Activity     int64         `json:"activity"`
	ToBeBudgeted int64         `json:"to_be_budgeted"`
	AgeOfMoney   *int          `json:"age_of_money"`
	Deleted      bool          `json:"deleted"`
	Categories   []RawCategory `json:"categories"`
}

type RawTransaction struct {
	ID                    string `json:"id"`
	Date                  string `json:"date"`
	Amount                int64  `json:"amount"`
	Memo                  string `json:"memo"`
	Cleared               string `json:"cleared"`
	Approved              bool   `json:"approved"`
	FlagColor             string `json:"flag_color"`
	AccountID             string `json:"account_id"`
	PayeeID               string `json:"payee_id"`
	CategoryID            string `json:"category_id"`
	TransferAccountID     string `json:"transfer_account_id"`
	TransferTransactionID string `json:"transfer_transaction_id"`
	ImportID              string `json:"import_id"`
	Deleted               bool   `json:"deleted"`
}

type RawSubTransaction struct {
	ID                string `json:"id"`
	TransactionID     string `json:"transaction_id"`
	Amount            int64  `json:"amount"`
	Memo              string `json:"memo"`
	PayeeID           string `json:"payee_id"`
	CategoryID        string `json:"category_id"`
	TransferAccountID string `json:"transfer_account_id"`
	Deleted           bool   `json:"deleted"`
}

type RawScheduledTransaction struct {
	ID                string `json:"id"`
	DateFirst         string `json:"date_first"`
	DateNext          string `json:"date_next"`
	Frequency         string `json:"frequency"`
	Amount            int64  `json:"amount"`
	Memo              string `json:"memo"`
	FlagColor         string `json:"flag_color"`
	AccountID         string `json:"account_id"`
	PayeeID           string `json:"payee_id"`
	CategoryID        string `json:"category_id"`
	TransferAccountID string `json:"transfer_account_id"`
	Deleted           bool   `json:"deleted"`
}

type RawScheduledSubTransaction struct {
	ID                     string `json:"id"`
	ScheduledTransactionID string `json:"scheduled_transaction_id"`
	Amount                 int64  `json:"amount"`
	Memo                   string `json:"memo"`
	PayeeID                string `json:"payee_id"`
	CategoryID             string `json:"category_id"`
	TransferAccountID      string `json:"transfer_account_id"`
	Deleted                bool   `json:"deleted"`
}

// DiscoveredFile is a budget export found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Name    string // file name without extension
	Size    int64
	ModTime int64 // unix nanoseconds
}
