package topicmind

// Clustering algorithm names accepted by TrainerConfig.
const (
	AlgorithmDBSCAN = "dbscan"
	AlgorithmKMeans = "kmeans"
)

// Defaults for the trainer configuration space.
const (
	DefaultSeed           = 42
	DefaultNeighbors      = 15
	DefaultOutputDims     = 5
	DefaultMinClusterSize = 10
	DefaultMinSamples     = 5
	DefaultTopKeywords    = 10
	DefaultSampleDocs     = 3
)

// TrainerConfig holds the full configuration for one training run. The
// zero value is usable: applyDefaults fills in every unset field.
type TrainerConfig struct {
	ModelType ModelType `json:"model_type"`

	// Seed drives the random choices in dimensionality reduction so a
	// fixed document set always reproduces the same reduced space. The
	// k-means algorithm seeds its own centers and is not covered.
	Seed int64 `json:"seed"`

	// Reduction parameters: target dimensionality of the reduced space and
	// the neighborhood size used for local smoothing.
	OutputDims int `json:"output_dims"`
	Neighbors  int `json:"neighbors"`

	// Clustering parameters. Epsilon of 0 means estimate from the data.
	Algorithm      string  `json:"algorithm"`
	MinClusterSize int     `json:"min_cluster_size"`
	MinSamples     int     `json:"min_samples"`
	Epsilon        float64 `json:"epsilon,omitempty"`

	// NumClusters applies to the k-means algorithm only.
	NumClusters int `json:"num_clusters,omitempty"`

	// TopKeywords is the number of ranked keywords kept per topic.
	TopKeywords int `json:"top_keywords"`

	// GenerateLabels enables the descriptive-label collaborator during
	// training. Tuning trials run with it disabled.
	GenerateLabels bool `json:"generate_labels"`

	// SampleDocs is how many representative documents accompany each
	// label-generation request.
	SampleDocs int `json:"sample_docs"`
}

// applyDefaults fills in default values for unset config fields.
func (c *TrainerConfig) applyDefaults() {
	if c.ModelType == "" {
		c.ModelType = ModelJournals
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.OutputDims == 0 {
		c.OutputDims = DefaultOutputDims
	}
	if c.Neighbors == 0 {
		c.Neighbors = DefaultNeighbors
	}
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmDBSCAN
	}
	if c.MinClusterSize == 0 {
		c.MinClusterSize = DefaultMinClusterSize
	}
	if c.MinSamples == 0 {
		c.MinSamples = DefaultMinSamples
	}
	if c.NumClusters == 0 {
		c.NumClusters = len(severityLevels)
	}
	if c.TopKeywords == 0 {
		c.TopKeywords = DefaultTopKeywords
	}
	if c.SampleDocs == 0 {
		c.SampleDocs = DefaultSampleDocs
	}
}

// ReducerConfig holds the thresholds for the outlier-reduction chain.
type ReducerConfig struct {
	// MinSimilarity is the cosine floor for the term-frequency strategy.
	MinSimilarity float64

	// MinProbability is the looser floor for the probability strategy.
	MinProbability float64
}

// applyDefaults fills in default values for unset config fields.
func (c *ReducerConfig) applyDefaults() {
	if c.MinSimilarity == 0 {
		c.MinSimilarity = 0.30
	}
	if c.MinProbability == 0 {
		c.MinProbability = 0.15
	}
}

// ValidationThresholds configures the named checks and the composite-score
// shape of the validator.
type ValidationThresholds struct {
	// MinTopics..MaxTopics is the healthy topic-count band: full credit
	// inside it, linear decay outside.
	MinTopics int
	MaxTopics int

	// MaxOutlierRatio is the ceiling at which the outlier score reaches 0.
	MaxOutlierRatio float64

	MinDiversity      float64
	MinAvgClusterSize float64
	MinLabelUnique    float64
}

// applyDefaults fills in default values for unset config fields.
func (c *ValidationThresholds) applyDefaults() {
	if c.MinTopics == 0 {
		c.MinTopics = 3
	}
	if c.MaxTopics == 0 {
		c.MaxTopics = 50
	}
	if c.MaxOutlierRatio == 0 {
		c.MaxOutlierRatio = 0.5
	}
	if c.MinDiversity == 0 {
		c.MinDiversity = 0.3
	}
	if c.MinAvgClusterSize == 0 {
		c.MinAvgClusterSize = 5
	}
	if c.MinLabelUnique == 0 {
		c.MinLabelUnique = 0.8
	}
}

// RetrainPolicy holds the tunable thresholds of the retrain decision
// engine. The values are policy inputs, not fixed behavior.
type RetrainPolicy struct {
	// GrowthThreshold is the number of new documents (summed across
	// sub-model corpora) that triggers a retrain on its own.
	GrowthThreshold int

	// StalenessDays forces a retrain once the last training is older than
	// this many days, regardless of growth.
	StalenessDays int

	// MinDocuments is the per-sub-model floor: a sub-model whose corpus is
	// smaller than this is skipped during a retrain event.
	MinDocuments int
}

// applyDefaults fills in default values for unset config fields.
func (p *RetrainPolicy) applyDefaults() {
	if p.GrowthThreshold == 0 {
		p.GrowthThreshold = 50
	}
	if p.StalenessDays == 0 {
		p.StalenessDays = 7
	}
	if p.MinDocuments == 0 {
		p.MinDocuments = 20
	}
}
