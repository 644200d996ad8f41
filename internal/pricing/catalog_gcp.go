package pricing

import "github.com/finopsguard/finopsguard/internal/types"

// registerGCPCatalog populates deterministic GCP rates. Keys use the
// model's canonical "gcp_" namespace; the parser rewrites Terraform's
// "google_" resource types to match before pricing ever sees them.
func registerGCPCatalog(c *Catalog) {
	machineTypes := map[string]string{
		"e2-micro":      "0.0084",
		"e2-medium":     "0.0335",
		"n1-standard-1": "0.0475",
	}
	for size, price := range machineTypes {
		c.register("google", "gcp_compute_instance:"+size, "us-central1", types.UnitHour, price, "us-central1")
		c.register("google", "gcp_dataflow_job:"+size, "us-central1", types.UnitHour, price, "us-central1")
	}

	// Per GB-month; the extractor carries the capacity in metadata size_gb.
	c.register("google", "gcp_compute_disk:pd-standard", "us-central1", types.UnitGBMonth, "0.04", "us-central1")
	c.register("google", "gcp_compute_disk:pd-ssd", "us-central1", types.UnitGBMonth, "0.17", "us-central1")
	c.register("google", "gcp_compute_disk:pd-balanced", "us-central1", types.UnitGBMonth, "0.10", "us-central1")

	// Per node-hour and per processing-unit-hour (1000 PU == 1 node).
	c.register("google", "gcp_spanner_instance:node", "us-central1", types.UnitHour, "0.90", "us-central1")
	c.register("google", "gcp_spanner_instance:processing_unit", "us-central1", types.UnitHour, "0.0009", "us-central1")

	// Per GB-month by tier; the extractor carries capacity in size_gb.
	c.register("google", "gcp_filestore_instance:BASIC_HDD", "us-central1", types.UnitGBMonth, "0.16", "us-central1")
	c.register("google", "gcp_filestore_instance:BASIC_SSD", "us-central1", types.UnitGBMonth, "0.25", "us-central1")
	c.register("google", "gcp_filestore_instance:PREMIUM", "us-central1", types.UnitGBMonth, "0.30", "us-central1")

	c.register("google", "gcp_pubsub_topic:topic", "us-central1", types.UnitRequest, "0.0000004", "us-central1")

	// Per node-hour; the extractor carries the node count in Count.
	c.register("google", "gcp_composer_environment:n1-standard-2", "us-central1", types.UnitHour, "0.095", "us-central1")
	c.register("google", "gcp_composer_environment:n1-standard-4", "us-central1", types.UnitHour, "0.19", "us-central1")

	// Per instance-hour; the extractor carries master+workers in Count.
	c.register("google", "gcp_dataproc_cluster:n1-standard-4", "us-central1", types.UnitHour, "0.23", "us-central1")
	c.register("google", "gcp_dataproc_cluster:n1-standard-8", "us-central1", types.UnitHour, "0.46", "us-central1")

	c.register("google", "gcp_notebooks_instance:n1-standard-4", "us-central1", types.UnitHour, "0.19", "us-central1")

	// Flat per-policy monthly charge.
	c.register("google", "gcp_cloud_armor:policy", "global", types.UnitMonth, "5.00", "global")
}
