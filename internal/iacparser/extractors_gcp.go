package iacparser

import (
	"fmt"

	"github.com/finopsguard/finopsguard/internal/types"
)

func init() {
	register("google_compute_instance", extractGCPComputeInstance)
	alias("google_compute_instance", "gcp_compute_instance")
	register("gcp_compute_disk", extractGCPComputeDisk)
	alias("gcp_compute_disk", "google_compute_disk")
	register("gcp_spanner_instance", extractGCPSpanner)
	alias("gcp_spanner_instance", "google_spanner_instance")
	register("gcp_dataflow_job", extractGCPDataflowJob)
	alias("gcp_dataflow_job", "google_dataflow_job")
	register("google_filestore_instance", extractGCPFilestore)
	alias("google_filestore_instance", "gcp_filestore_instance")
	register("google_pubsub_topic", extractGCPPubSubTopic)
	alias("google_pubsub_topic", "gcp_pubsub_topic")
	register("google_composer_environment", extractGCPComposer)
	alias("google_composer_environment", "gcp_composer_environment")
	register("google_dataproc_cluster", extractGCPDataproc)
	alias("google_dataproc_cluster", "gcp_dataproc_cluster")
	register("google_notebooks_instance", extractGCPNotebooks)
	alias("google_notebooks_instance", "gcp_notebooks_instance")
	register("google_compute_security_policy", extractGCPCloudArmor)
}

func extractGCPComputeInstance(block RawBlock, _ map[string]string) types.CanonicalResource {
	machineType := defaultString(block.Attributes.String("machine_type"), "e2-medium")
	impact, refs := confidenceNotes(block.Attributes, "machine_type")

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     machineType,
		Metadata: withDeferredMetadata(nil, impact, refs),
	}
}

func extractGCPComputeDisk(block RawBlock, _ map[string]string) types.CanonicalResource {
	diskType := defaultString(block.Attributes.String("type"), "pd-standard")
	size := block.Attributes.Float("size", 10)
	impact, refs := confidenceNotes(block.Attributes, "type", "size")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: fmt.Sprintf("%s/%.0fGB", diskType, size),
		Metadata: withDeferredMetadata(map[string]any{
			"disk_type": diskType,
			"size_gb":   size,
			"sku":       diskType,
		}, impact, refs),
	}
}

// extractGCPSpanner sizes by node count, or by processing units when the
// block declares processing_units instead (1000 PU == 1 node in Spanner's
// own accounting; the catalog carries a per-PU rate so either spelling
// prices the same capacity identically).
func extractGCPSpanner(block RawBlock, _ map[string]string) types.CanonicalResource {
	if pu := block.Attributes.Int("processing_units", 0); pu > 0 {
		impact, refs := confidenceNotes(block.Attributes, "processing_units")
		return types.CanonicalResource{
			Type:  block.ResourceType,
			Name:  block.ResourceName,
			Size:  fmt.Sprintf("%dPU", pu),
			Count: pu,
			Metadata: withDeferredMetadata(map[string]any{
				"processing_units": pu,
				"sku":              "processing_unit",
			}, impact, refs),
		}
	}

	nodeCount := block.Attributes.Int("num_nodes", 1)
	impact, refs := confidenceNotes(block.Attributes, "num_nodes", "processing_units")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  fmt.Sprintf("%dnodes", nodeCount),
		Count: nodeCount,
		Metadata: withDeferredMetadata(map[string]any{
			"node_count": nodeCount,
			"sku":        "node",
		}, impact, refs),
	}
}

// extractGCPFilestore reads capacity out of the nested file_shares block,
// which the scanner flattens under dotted keys.
func extractGCPFilestore(block RawBlock, _ map[string]string) types.CanonicalResource {
	tier := defaultString(block.Attributes.String("tier"), "BASIC_HDD")
	capacity := block.Attributes.Float("file_shares.capacity_gb", 1024)
	impact, refs := confidenceNotes(block.Attributes, "tier", "file_shares.capacity_gb")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: fmt.Sprintf("%s/%.0fGB", tier, capacity),
		Metadata: withDeferredMetadata(map[string]any{
			"capacity_gb": capacity,
			"size_gb":     capacity,
			"sku":         tier,
		}, impact, refs),
	}
}

func extractGCPPubSubTopic(block RawBlock, _ map[string]string) types.CanonicalResource {
	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: "topic",
	}
}

func extractGCPComposer(block RawBlock, _ map[string]string) types.CanonicalResource {
	machineType := defaultString(block.Attributes.String("config.node_config.machine_type"), "n1-standard-2")
	nodeCount := block.Attributes.Int("config.node_count", 3)
	impact, refs := confidenceNotes(block.Attributes, "config.node_count", "config.node_config.machine_type")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  fmt.Sprintf("%s/%dnodes", machineType, nodeCount),
		Count: nodeCount,
		Metadata: withDeferredMetadata(map[string]any{
			"node_count":   nodeCount,
			"machine_type": machineType,
			"sku":          machineType,
		}, impact, refs),
	}
}

// extractGCPDataproc sizes by the master machine type and carries the
// whole node pool (master plus workers) in Count, so the per-hour rate
// scales with the cluster.
func extractGCPDataproc(block RawBlock, _ map[string]string) types.CanonicalResource {
	masterType := defaultString(block.Attributes.String("cluster_config.master_config.machine_type"), "n1-standard-4")
	workerType := block.Attributes.String("cluster_config.worker_config.machine_type")
	workers := block.Attributes.Int("cluster_config.worker_config.num_instances", 2)
	masters := block.Attributes.Int("cluster_config.master_config.num_instances", 1)
	impact, refs := confidenceNotes(block.Attributes,
		"cluster_config.master_config.machine_type",
		"cluster_config.worker_config.num_instances")

	meta := map[string]any{
		"worker_count": workers,
		"sku":          masterType,
	}
	if workerType != "" {
		meta["worker_machine_type"] = workerType
	}

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     fmt.Sprintf("%s/%dworkers", masterType, workers),
		Count:    masters + workers,
		Metadata: withDeferredMetadata(meta, impact, refs),
	}
}

func extractGCPNotebooks(block RawBlock, _ map[string]string) types.CanonicalResource {
	machineType := defaultString(block.Attributes.String("machine_type"), "n1-standard-4")
	impact, refs := confidenceNotes(block.Attributes, "machine_type")

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     machineType,
		Metadata: withDeferredMetadata(nil, impact, refs),
	}
}

// extractGCPCloudArmor normalizes google_compute_security_policy to the
// gcp_cloud_armor type it is billed as: a flat per-policy monthly charge,
// global by definition.
func extractGCPCloudArmor(block RawBlock, _ map[string]string) types.CanonicalResource {
	return types.CanonicalResource{
		Type:   "gcp_cloud_armor",
		Name:   block.ResourceName,
		Region: "global",
		Size:   "policy",
	}
}

func extractGCPDataflowJob(block RawBlock, _ map[string]string) types.CanonicalResource {
	machineType := defaultString(block.Attributes.String("machine_type"), "n1-standard-1")
	maxWorkers := block.Attributes.Int("max_workers", 1)
	impact, refs := confidenceNotes(block.Attributes, "machine_type", "max_workers")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  fmt.Sprintf("%s/%dworkers", machineType, maxWorkers),
		Count: maxWorkers,
		Metadata: withDeferredMetadata(map[string]any{
			"machine_type": machineType,
			"max_workers":  maxWorkers,
			"sku":          machineType,
		}, impact, refs),
	}
}
