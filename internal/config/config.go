package config

import (
	"fmt"
	"os"
	"strings"

	"cryptofactor/internal/domain"
	"cryptofactor/internal/util"

	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "FACTOR"
	ConfigPathEnv = "FACTOR_CONFIG"
)

type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Output   OutputConfig   `mapstructure:"output"`
	Api      ApiConfig      `mapstructure:"api"`
}

type DataSource string

const (
	DataSource_Csv      DataSource = "csv"
	DataSource_Postgres DataSource = "postgres"
)

type DataConfig struct {
	Source      DataSource `mapstructure:"source"`
	PricesPath  string     `mapstructure:"prices_path"`
	FundingPath string     `mapstructure:"funding_path"`
	SupplyPath  string     `mapstructure:"supply_path"`
}

type DatabaseConfig struct {
	Host                string `mapstructure:"host"`
	User                string `mapstructure:"user"`
	Port                string `mapstructure:"port"`
	Password            string `mapstructure:"password"`
	Database            string `mapstructure:"database"`
	EnableSsl           bool   `mapstructure:"enable_ssl"`
	QueryTimeoutSeconds int    `mapstructure:"query_timeout_seconds"`
}

func (t DatabaseConfig) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	Plot bool   `mapstructure:"plot"`
}

type ApiConfig struct {
	Port            int `mapstructure:"port"`
	SweepParallel   int `mapstructure:"sweep_parallel"`
	MaxSweepEntries int `mapstructure:"max_sweep_entries"`
}

// StrategyConfig is the string-typed configuration surface shared by the
// config file and the HTTP API. ToParams turns it into engine params.
type StrategyConfig struct {
	FactorType               string  `mapstructure:"factor_type" json:"factorType"`
	Window                   int     `mapstructure:"window_length" json:"windowLength"`
	MinHistory               int     `mapstructure:"min_history" json:"minHistory"`
	Benchmark                string  `mapstructure:"benchmark" json:"benchmark"`
	FundingSource            string  `mapstructure:"funding_source" json:"fundingSource"`
	SupplyField              string  `mapstructure:"supply_field" json:"supplyField"`
	MaxSnapshotStalenessDays int     `mapstructure:"max_snapshot_staleness_days" json:"maxSnapshotStalenessDays"`
	Expression               string  `mapstructure:"expression" json:"expression"`
	ReturnKind               string  `mapstructure:"return_kind" json:"returnKind"`
	Direction                string  `mapstructure:"strategy_direction" json:"strategyDirection"`
	RebalanceIntervalDays    int     `mapstructure:"rebalance_interval_days" json:"rebalanceIntervalDays"`
	BucketRule               string  `mapstructure:"bucket_rule" json:"bucketRule"`
	WeightingMethod          string  `mapstructure:"weighting_method" json:"weightingMethod"`
	VolWindow                int     `mapstructure:"vol_window" json:"volWindow"`
	LongAllocation           float64 `mapstructure:"long_allocation" json:"longAllocation"`
	ShortAllocation          float64 `mapstructure:"short_allocation" json:"shortAllocation"`
	StartDate                string  `mapstructure:"start_date" json:"startDate"`
	EndDate                  string  `mapstructure:"end_date" json:"endDate"`
	MinUniverseSizePerSide   int     `mapstructure:"min_universe_size_per_side" json:"minUniverseSizePerSide"`
	TransactionCostBps       float64 `mapstructure:"transaction_cost_bps" json:"transactionCostBps"`
	InitialCapital           float64 `mapstructure:"initial_capital" json:"initialCapital"`
	RiskFreeRate             float64 `mapstructure:"risk_free_rate" json:"riskFreeRate"`
	UniversePolicy           string  `mapstructure:"insufficient_universe_policy" json:"insufficientUniversePolicy"`
}

func (s StrategyConfig) ToParams() (domain.Params, error) {
	factorType, err := domain.NewFactorType(s.FactorType)
	if err != nil {
		return domain.Params{}, err
	}
	direction, err := domain.NewDirection(s.Direction)
	if err != nil {
		return domain.Params{}, err
	}
	bucketRule, err := domain.NewBucketRule(s.BucketRule)
	if err != nil {
		return domain.Params{}, err
	}
	weighting, err := domain.NewWeightingMethod(s.WeightingMethod)
	if err != nil {
		return domain.Params{}, err
	}
	fundingSource, err := domain.NewFundingSource(s.FundingSource)
	if err != nil {
		return domain.Params{}, err
	}
	supplyField, err := domain.NewSupplyField(s.SupplyField)
	if err != nil {
		return domain.Params{}, err
	}
	returnKind, err := domain.NewReturnKind(s.ReturnKind)
	if err != nil {
		return domain.Params{}, err
	}
	policy, err := domain.NewUniversePolicy(s.UniversePolicy)
	if err != nil {
		return domain.Params{}, err
	}
	start, err := util.ParseDate(s.StartDate)
	if err != nil {
		return domain.Params{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := util.ParseDate(s.EndDate)
	if err != nil {
		return domain.Params{}, fmt.Errorf("invalid end date: %w", err)
	}

	params := domain.Params{
		Factor: domain.FactorOptions{
			Type:                     factorType,
			Window:                   s.Window,
			MinHistory:               s.MinHistory,
			ReturnKind:               returnKind,
			Benchmark:                strings.ToUpper(s.Benchmark),
			FundingSource:            fundingSource,
			SupplyField:              supplyField,
			MaxSnapshotStalenessDays: s.MaxSnapshotStalenessDays,
			Expression:               s.Expression,
		},
		Direction:             direction,
		RebalanceIntervalDays: s.RebalanceIntervalDays,
		BucketRule:            bucketRule,
		Weighting:             weighting,
		VolWindow:             s.VolWindow,
		LongAllocation:        s.LongAllocation,
		ShortAllocation:       s.ShortAllocation,
		StartDate:             start,
		EndDate:               end,
		MinPerSide:            s.MinUniverseSizePerSide,
		TransactionCostBps:    s.TransactionCostBps,
		InitialCapital:        s.InitialCapital,
		RiskFreeRate:          s.RiskFreeRate,
		UniversePolicy:        policy,
	}.WithDefaults()

	if err := params.Valid(); err != nil {
		return domain.Params{}, err
	}
	return params, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.source", string(DataSource_Csv))
	v.SetDefault("data.prices_path", "data/prices.csv")
	v.SetDefault("data.funding_path", "")
	v.SetDefault("data.supply_path", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "postgres")
	v.SetDefault("database.enable_ssl", false)
	v.SetDefault("database.query_timeout_seconds", 30)

	v.SetDefault("strategy.factor_type", string(domain.FactorType_Volatility))
	v.SetDefault("strategy.window_length", 30)
	v.SetDefault("strategy.min_history", 0)
	v.SetDefault("strategy.benchmark", "BTC")
	v.SetDefault("strategy.funding_source", string(domain.FundingSource_Daily))
	v.SetDefault("strategy.supply_field", string(domain.SupplyField_Circulating))
	v.SetDefault("strategy.max_snapshot_staleness_days", domain.DefaultMaxSnapshotStalenessDays)
	v.SetDefault("strategy.expression", "")
	v.SetDefault("strategy.return_kind", string(domain.ReturnKind_Simple))
	v.SetDefault("strategy.strategy_direction", string(domain.Direction_LowLong))
	v.SetDefault("strategy.rebalance_interval_days", 7)
	v.SetDefault("strategy.bucket_rule", "top_bottom:10")
	v.SetDefault("strategy.weighting_method", string(domain.WeightingMethod_Equal))
	v.SetDefault("strategy.vol_window", domain.DefaultVolWindow)
	v.SetDefault("strategy.long_allocation", 0.5)
	v.SetDefault("strategy.short_allocation", 0.5)
	v.SetDefault("strategy.start_date", "")
	v.SetDefault("strategy.end_date", "")
	v.SetDefault("strategy.min_universe_size_per_side", 1)
	v.SetDefault("strategy.transaction_cost_bps", 0.0)
	v.SetDefault("strategy.initial_capital", domain.DefaultInitialCapital)
	v.SetDefault("strategy.risk_free_rate", 0.0)
	v.SetDefault("strategy.insufficient_universe_policy", string(domain.UniversePolicy_Flatten))

	v.SetDefault("output.dir", "results")
	v.SetDefault("output.plot", false)

	v.SetDefault("api.port", 3009)
	v.SetDefault("api.sweep_parallel", 4)
	v.SetDefault("api.max_sweep_entries", 64)
}

// Load reads the config file at path (or $FACTOR_CONFIG). Every key can be
// overridden from the environment, e.g. FACTOR_STRATEGY_WINDOW_LENGTH=60.
// An empty path with no env var yields defaults plus env overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Data.Source = DataSource(strings.ToLower(string(cfg.Data.Source)))
	if cfg.Data.Source != DataSource_Csv && cfg.Data.Source != DataSource_Postgres {
		return nil, fmt.Errorf("unknown data source '%s'", cfg.Data.Source)
	}

	return &cfg, nil
}
