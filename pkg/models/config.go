package models

// ShardDescriptor describes one partition of a usecase's backing database.
// Large usecases carry tens of thousands of these in a single Config.
type ShardDescriptor struct {
	ShardID    string `json:"shard_id"`
	NumEntries uint64 `json:"num_entries"`
	EntrySize  uint64 `json:"entry_size"`
}

// Config is the client-facing description of one usecase. ConfigID is the
// configuration hash; evaluation keys uploaded for this usecase carry it in
// their metadata identifier.
type Config struct {
	ConfigID []byte            `json:"config_id"`
	Shards   []ShardDescriptor `json:"shards"`
	// Params carries scheme parameters opaque to the controller.
	Params map[string]string `json:"params,omitempty"`
}

// EvaluationKeyConfig tells a client what evaluation key to generate for a
// usecase. The controller only relays it; the scheme fields are opaque.
type EvaluationKeyConfig struct {
	ConfigID []byte           `json:"config_id"`
	Scheme   string           `json:"scheme"`
	Params   map[string]int64 `json:"params,omitempty"`
}

// ConfigRequest names the usecases a client wants configuration for.
type ConfigRequest struct {
	Usecases []string `json:"usecases"`
}

// ConfigResponse aggregates per-usecase configs. KeyInfo preserves the
// request order of usecases so clients can match key requirements to the
// names they asked for.
type ConfigResponse struct {
	Configs map[string]Config     `json:"configs"`
	KeyInfo []EvaluationKeyConfig `json:"keyInfo"`
}
