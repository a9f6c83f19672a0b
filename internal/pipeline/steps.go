package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/storeeda/internal/aggregate"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"github.com/nao1215/storeeda/internal/narrative"
)

// stepBase holds what every report step shares: the record set it reads,
// the text of its section and a logger.
type stepBase struct {
	name   string
	rs     *dataset.RecordSet
	text   narrative.Text
	logger *slog.Logger
}

// StepOption configures a report step.
type StepOption func(*stepBase)

// WithStepText replaces the step's built-in section text.
func WithStepText(text narrative.Text) StepOption {
	return func(b *stepBase) {
		b.text = text
	}
}

// WithStepLogger sets a custom logger for the step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(b *stepBase) {
		b.logger = logger
	}
}

func newStepBase(name string, rs *dataset.RecordSet, opts []StepOption) stepBase {
	b := stepBase{
		name:   name,
		rs:     rs,
		text:   narrative.For(name),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Name returns the step name.
func (b *stepBase) Name() string {
	return b.name
}

// section starts a section carrying the step's text.
func (b *stepBase) section(kind model.ChartKind) model.Section {
	s := model.Section{Step: b.name, Chart: kind}
	b.text.Apply(&s)
	return s
}

// OverviewStep describes the dataset: column types, missing values and the
// statistics of the numeric columns.
type OverviewStep struct {
	stepBase
}

// NewOverviewStep creates the dataset overview step.
func NewOverviewStep(rs *dataset.RecordSet, opts ...StepOption) *OverviewStep {
	return &OverviewStep{stepBase: newStepBase(model.StepOverview, rs, opts)}
}

// Do executes the overview step.
func (s *OverviewStep) Do(_ context.Context, report *model.Report) error {
	ov, err := aggregate.Describe(s.rs)
	if err != nil {
		return fmt.Errorf("failed to describe dataset: %w", err)
	}
	report.Overview = ov
	report.AddSection(s.section(model.ChartTable))
	return nil
}

// AgeQuantityStep sums the units bought by each age group.
type AgeQuantityStep struct {
	stepBase
}

// NewAgeQuantityStep creates the age/quantity step.
func NewAgeQuantityStep(rs *dataset.RecordSet, opts ...StepOption) *AgeQuantityStep {
	return &AgeQuantityStep{stepBase: newStepBase(model.StepAgeQuantity, rs, opts)}
}

// Do executes the age/quantity step.
func (s *AgeQuantityStep) Do(_ context.Context, report *model.Report) error {
	res, err := aggregate.AgeQuantity(s.rs)
	if err != nil {
		return fmt.Errorf("failed to aggregate quantity by age: %w", err)
	}
	if !res.Dropped.IsZero() {
		s.logger.Debug("quantity outside age buckets",
			"step", s.name,
			"dropped", res.Dropped.String(),
		)
	}
	sec := s.section(model.ChartBar)
	sec.Rows = res.Rows
	sec.Dropped = res.Dropped
	report.AddSection(sec)
	return nil
}

// MonthlyRevenueStep sums revenue per calendar month.
type MonthlyRevenueStep struct {
	stepBase
}

// NewMonthlyRevenueStep creates the monthly revenue step.
func NewMonthlyRevenueStep(rs *dataset.RecordSet, opts ...StepOption) *MonthlyRevenueStep {
	return &MonthlyRevenueStep{stepBase: newStepBase(model.StepMonthlyRevenue, rs, opts)}
}

// Do executes the monthly revenue step.
func (s *MonthlyRevenueStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.MonthlyRevenue(s.rs)
	if err != nil {
		return fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}
	sec := s.section(model.ChartLine)
	sec.Rows = rows
	report.AddSection(sec)
	return nil
}

// ProductSalesStep sums completed sales per product type.
type ProductSalesStep struct {
	stepBase
}

// NewProductSalesStep creates the product sales step.
func NewProductSalesStep(rs *dataset.RecordSet, opts ...StepOption) *ProductSalesStep {
	return &ProductSalesStep{stepBase: newStepBase(model.StepProductSales, rs, opts)}
}

// Do executes the product sales step.
func (s *ProductSalesStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.SalesByProductType(s.rs)
	if err != nil {
		return fmt.Errorf("failed to aggregate sales by product type: %w", err)
	}
	sec := s.section(model.ChartBar)
	sec.Rows = rows
	report.AddSection(sec)
	return nil
}

// ShippingSalesStep sums completed sales per shipping type and draws them
// as a radar polygon.
//
// When no completed order has a shipping type the section is kept but
// skipped, and an EmptyAggregateWarning is added to the report.
type ShippingSalesStep struct {
	stepBase
}

// NewShippingSalesStep creates the shipping sales step.
func NewShippingSalesStep(rs *dataset.RecordSet, opts ...StepOption) *ShippingSalesStep {
	return &ShippingSalesStep{stepBase: newStepBase(model.StepShippingSales, rs, opts)}
}

// Do executes the shipping sales step.
func (s *ShippingSalesStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.SalesByShippingType(s.rs)
	if err != nil {
		return fmt.Errorf("failed to aggregate sales by shipping type: %w", err)
	}

	sec := s.section(model.ChartRadar)
	if len(rows) == 0 {
		w := model.EmptyAggregateWarning{
			Step:    s.name,
			Message: "no completed orders with a shipping type",
		}
		s.logger.Warn("empty aggregate, skipping section",
			"step", s.name,
			"source", report.Source,
			"error", w,
		)
		sec.Skipped = true
		sec.Caption = ""
		sec.Note = narrative.NoDataNote
		report.AddSection(sec)
		report.AddWarning(w)
		return nil
	}

	sec.Rows = rows
	sec.Polygon = aggregate.ClosePolygon(rows)
	report.AddSection(sec)
	return nil
}

// AddOnsStep counts add-on terms for the word-frequency chart.
type AddOnsStep struct {
	stepBase
}

// NewAddOnsStep creates the add-on popularity step.
func NewAddOnsStep(rs *dataset.RecordSet, opts ...StepOption) *AddOnsStep {
	return &AddOnsStep{stepBase: newStepBase(model.StepAddOns, rs, opts)}
}

// Do executes the add-on popularity step.
func (s *AddOnsStep) Do(_ context.Context, report *model.Report) error {
	terms, err := aggregate.AddOnFrequency(s.rs)
	if err != nil {
		return fmt.Errorf("failed to count add-ons: %w", err)
	}
	sec := s.section(model.ChartWordFrequency)
	sec.Terms = terms
	report.AddSection(sec)
	return nil
}

// RatingsStep builds one rating distribution per product type.
type RatingsStep struct {
	stepBase
	kdePoints int
}

// NewRatingsStep creates the ratings step. kdePoints is the number of
// density samples per distribution; zero or less uses the default.
func NewRatingsStep(rs *dataset.RecordSet, kdePoints int, opts ...StepOption) *RatingsStep {
	if kdePoints <= 0 {
		kdePoints = aggregate.DefaultKDEPoints
	}
	return &RatingsStep{
		stepBase:  newStepBase(model.StepRatings, rs, opts),
		kdePoints: kdePoints,
	}
}

// Do executes the ratings step.
func (s *RatingsStep) Do(_ context.Context, report *model.Report) error {
	dists, err := aggregate.RatingsByProductType(s.rs, aggregate.WithKDEPoints(s.kdePoints))
	if err != nil {
		return fmt.Errorf("failed to build rating distributions: %w", err)
	}
	sec := s.section(model.ChartViolin)
	sec.Distributions = dists
	report.AddSection(sec)
	return nil
}

// GenderSplitStep computes each gender's share of transactions.
type GenderSplitStep struct {
	stepBase
}

// NewGenderSplitStep creates the gender split step.
func NewGenderSplitStep(rs *dataset.RecordSet, opts ...StepOption) *GenderSplitStep {
	return &GenderSplitStep{stepBase: newStepBase(model.StepGenderSplit, rs, opts)}
}

// Do executes the gender split step.
func (s *GenderSplitStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.GenderSplit(s.rs)
	if err != nil {
		return fmt.Errorf("failed to split by gender: %w", err)
	}
	sec := s.section(model.ChartPie)
	sec.Rows = rows
	report.AddSection(sec)
	return nil
}

// GenderSpendStep measures spending per gender, either as the sum of total
// price or as a transaction count.
type GenderSpendStep struct {
	stepBase
	mode model.SpendMode
}

// NewGenderSpendStep creates the spend-by-gender step.
func NewGenderSpendStep(rs *dataset.RecordSet, mode model.SpendMode, opts ...StepOption) *GenderSpendStep {
	if mode == "" {
		mode = model.SpendTotal
	}
	return &GenderSpendStep{
		stepBase: newStepBase(model.StepGenderSpend, rs, opts),
		mode:     mode,
	}
}

// Do executes the spend-by-gender step.
func (s *GenderSpendStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.SpendByGender(s.rs, s.mode)
	if err != nil {
		return fmt.Errorf("failed to aggregate spend by gender: %w", err)
	}
	sec := s.section(model.ChartBar)
	sec.Rows = rows
	if s.mode == model.SpendCount {
		sec.YLabel = "Number of Transactions"
	}
	if sec.ChartTitle != "" {
		sec.ChartTitle = fmt.Sprintf("%s (%s)", sec.ChartTitle, s.mode)
	}
	report.SpendMode = s.mode
	report.AddSection(sec)
	return nil
}

// OrderStatusStep computes the share of completed and cancelled orders.
type OrderStatusStep struct {
	stepBase
}

// NewOrderStatusStep creates the order status step.
func NewOrderStatusStep(rs *dataset.RecordSet, opts ...StepOption) *OrderStatusStep {
	return &OrderStatusStep{stepBase: newStepBase(model.StepOrderStatus, rs, opts)}
}

// Do executes the order status step.
func (s *OrderStatusStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.OrderStatusSplit(s.rs)
	if err != nil {
		return fmt.Errorf("failed to split by order status: %w", err)
	}
	sec := s.section(model.ChartPie)
	sec.Rows = rows
	report.AddSection(sec)
	return nil
}

// PaymentMethodsStep counts transactions per payment method.
type PaymentMethodsStep struct {
	stepBase
}

// NewPaymentMethodsStep creates the payment methods step.
func NewPaymentMethodsStep(rs *dataset.RecordSet, opts ...StepOption) *PaymentMethodsStep {
	return &PaymentMethodsStep{stepBase: newStepBase(model.StepPaymentMethods, rs, opts)}
}

// Do executes the payment methods step.
func (s *PaymentMethodsStep) Do(_ context.Context, report *model.Report) error {
	rows, err := aggregate.PaymentMethods(s.rs)
	if err != nil {
		return fmt.Errorf("failed to count payment methods: %w", err)
	}
	sec := s.section(model.ChartBar)
	sec.Rows = rows
	report.AddSection(sec)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// SpendMode selects the measure of the spend-by-gender section.
	SpendMode model.SpendMode

	// Narrative overrides the text of individual sections. Steps missing
	// from the set use their built-in text.
	Narrative narrative.Set

	// KDEPoints is the number of density samples per rating distribution.
	KDEPoints int

	// Overview adds the dataset overview section.
	Overview bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineSpendMode sets the spend-by-gender measure.
func WithPipelineSpendMode(mode model.SpendMode) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SpendMode = mode
	}
}

// WithPipelineNarrative sets section text overrides.
func WithPipelineNarrative(set narrative.Set) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Narrative = set
	}
}

// WithPipelineKDEPoints sets the number of density samples per distribution.
func WithPipelineKDEPoints(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.KDEPoints = n
	}
}

// WithPipelineOverview enables or disables the dataset overview section.
func WithPipelineOverview(enabled bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Overview = enabled
	}
}

// DefaultPipeline creates a pipeline with every report step, in report
// order: overview, age/quantity, monthly revenue, product sales, shipping
// sales, add-ons, ratings, gender split, spend by gender, order status and
// payment methods.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineSpendMode, etc).
func DefaultPipeline(rs *dataset.RecordSet, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		SpendMode: model.SpendTotal,
		KDEPoints: aggregate.DefaultKDEPoints,
		Overview:  true,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	opts := func(step string) []StepOption {
		return []StepOption{
			WithStepText(cfg.Narrative.Text(step)),
			WithStepLogger(p.logger),
		}
	}

	if cfg.Overview {
		p.AddStep(NewOverviewStep(rs, opts(model.StepOverview)...))
	}
	p.AddSteps(
		NewAgeQuantityStep(rs, opts(model.StepAgeQuantity)...),
		NewMonthlyRevenueStep(rs, opts(model.StepMonthlyRevenue)...),
		NewProductSalesStep(rs, opts(model.StepProductSales)...),
		NewShippingSalesStep(rs, opts(model.StepShippingSales)...),
		NewAddOnsStep(rs, opts(model.StepAddOns)...),
		NewRatingsStep(rs, cfg.KDEPoints, opts(model.StepRatings)...),
		NewGenderSplitStep(rs, opts(model.StepGenderSplit)...),
		NewGenderSpendStep(rs, cfg.SpendMode, opts(model.StepGenderSpend)...),
		NewOrderStatusStep(rs, opts(model.StepOrderStatus)...),
		NewPaymentMethodsStep(rs, opts(model.StepPaymentMethods)...),
	)

	return p
}

// NewReport creates an empty report for rs carrying the built-in title,
// authors and description.
func NewReport(rs *dataset.RecordSet) *model.Report {
	r := model.NewReport(rs.Source())
	r.Title = narrative.Title
	r.Authors = append([]string(nil), narrative.Authors...)
	r.Description = narrative.Description
	r.RecordCount = rs.Len()
	return r
}
