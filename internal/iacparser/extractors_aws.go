package iacparser

import (
	"fmt"

	"github.com/finopsguard/finopsguard/internal/types"
)

func init() {
	register("aws_instance", extractEC2)
	register("aws_lambda_function", extractLambda)
	register("aws_ecs_cluster", extractECSCluster)
	register("aws_ecs_service", extractECSService)
	register("aws_ecs_task_definition", extractECSTaskDefinition)
	register("aws_kinesis_stream", extractKinesisStream)
	register("aws_sqs_queue", extractSQSQueue)
	register("aws_sns_topic", extractSNSTopic)
	register("aws_sfn_state_machine", extractStepFunctions)
	register("aws_apigatewayv2_api", extractAPIGatewayV2)
	register("aws_api_gateway_rest_api", extractAPIGatewayREST)
	register("aws_cloudfront_distribution", extractCloudFront)
	register("aws_db_instance", extractRDSInstance)
	register("aws_rds_cluster", extractRDSCluster)
	register("aws_neptune_cluster", extractNeptuneCluster)
	register("aws_docdb_cluster", extractDocDBCluster)
	register("aws_dynamodb_table", extractDynamoDBTable)
	register("aws_elasticache_cluster", extractElastiCache)
	register("aws_msk_cluster", extractMSKCluster)
	register("aws_emr_cluster", extractEMRCluster)
	register("aws_glue_job", extractGlueJob)
	register("aws_glue_crawler", extractGlueCrawler)
	register("aws_athena_workgroup", extractAthenaWorkgroup)
	register("aws_apprunner_service", extractAppRunnerService)
	register("aws_ebs_volume", extractEBSVolume)
	register("aws_s3_bucket", extractS3Bucket)
	register("aws_nat_gateway", extractNATGateway)
	register("aws_lb", extractLB)
	register("aws_autoscaling_group", extractASG)
}

func extractEC2(block RawBlock, _ map[string]string) types.CanonicalResource {
	instanceType := block.Attributes.String("instance_type")
	if instanceType == "" {
		instanceType = "t3.micro"
	}
	impact, refs := confidenceNotes(block.Attributes, "instance_type", "ami", "tenancy")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: instanceType,
		Metadata: withDeferredMetadata(map[string]any{
			"tenancy": defaultString(block.Attributes.String("tenancy"), "default"),
		}, impact, refs),
	}
}

func extractLambda(block RawBlock, _ map[string]string) types.CanonicalResource {
	memory := block.Attributes.Int("memory_size", 128)
	runtime := defaultString(block.Attributes.String("runtime"), "nodejs18.x")
	impact, refs := confidenceNotes(block.Attributes, "memory_size", "runtime")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: fmt.Sprintf("%dMB/%s", memory, runtime),
		Metadata: withDeferredMetadata(map[string]any{
			"memory_mb": memory,
			"runtime":   runtime,
			"sku":       fmt.Sprintf("%dMB", memory),
		}, impact, refs),
	}
}

// extractECSCluster records the cluster itself, which carries no direct
// charge; its cost shows up through the services and instances it hosts.
func extractECSCluster(block RawBlock, _ map[string]string) types.CanonicalResource {
	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: "cluster",
	}
}

func extractECSService(block RawBlock, _ map[string]string) types.CanonicalResource {
	desired := block.Attributes.Int("desired_count", 1)
	launchType := defaultString(block.Attributes.String("launch_type"), "FARGATE")
	impact, refs := confidenceNotes(block.Attributes, "desired_count", "launch_type", "cluster")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  fmt.Sprintf("%s/%dtasks", launchType, desired),
		Count: desired,
		Metadata: withDeferredMetadata(map[string]any{
			"launch_type":   launchType,
			"desired_count": desired,
			"sku":           launchType,
		}, impact, refs),
	}
}

func extractECSTaskDefinition(block RawBlock, _ map[string]string) types.CanonicalResource {
	cpu := block.Attributes.String("cpu")
	memory := block.Attributes.String("memory")
	if cpu == "" {
		cpu = "256"
	}
	if memory == "" {
		memory = "512"
	}
	impact, refs := confidenceNotes(block.Attributes, "cpu", "memory")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: fmt.Sprintf("%scpu/%smb", cpu, memory),
		Metadata: withDeferredMetadata(map[string]any{
			"cpu":    cpu,
			"memory": memory,
		}, impact, refs),
	}
}

func extractKinesisStream(block RawBlock, _ map[string]string) types.CanonicalResource {
	shards := block.Attributes.Int("shard_count", 1)
	impact, refs := confidenceNotes(block.Attributes, "shard_count")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  fmt.Sprintf("%dshards", shards),
		Count: shards,
		Metadata: withDeferredMetadata(map[string]any{
			"shard_count": shards,
			"sku":         "shard",
		}, impact, refs),
	}
}

func extractSQSQueue(block RawBlock, _ map[string]string) types.CanonicalResource {
	fifo := block.Attributes.Bool("fifo_queue", false)
	size := "standard"
	if fifo {
		size = "fifo"
	}
	impact, refs := confidenceNotes(block.Attributes, "fifo_queue")

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     size,
		Metadata: withDeferredMetadata(nil, impact, refs),
	}
}

func extractSNSTopic(block RawBlock, _ map[string]string) types.CanonicalResource {
	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: "topic",
	}
}

func extractStepFunctions(block RawBlock, _ map[string]string) types.CanonicalResource {
	machineType := defaultString(block.Attributes.String("type"), "STANDARD")
	impact, refs := confidenceNotes(block.Attributes, "type", "role_arn")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: machineType,
		Metadata: withDeferredMetadata(map[string]any{
			"workflow_type": machineType,
		}, impact, refs),
	}
}

// extractAPIGatewayV2 and extractAPIGatewayREST both normalize to the
// single aws_api_gateway type; the two Terraform resources are one billed
// service with different protocol front ends.
func extractAPIGatewayV2(block RawBlock, _ map[string]string) types.CanonicalResource {
	protocol := defaultString(block.Attributes.String("protocol_type"), "HTTP")
	impact, refs := confidenceNotes(block.Attributes, "protocol_type")

	return types.CanonicalResource{
		Type: "aws_api_gateway",
		Name: block.ResourceName,
		Size: protocol,
		Metadata: withDeferredMetadata(map[string]any{
			"source_type": block.ResourceType,
		}, impact, refs),
	}
}

func extractAPIGatewayREST(block RawBlock, _ map[string]string) types.CanonicalResource {
	return types.CanonicalResource{
		Type: "aws_api_gateway",
		Name: block.ResourceName,
		Size: "REST",
		Metadata: map[string]any{
			"source_type": block.ResourceType,
		},
	}
}

func extractCloudFront(block RawBlock, _ map[string]string) types.CanonicalResource {
	priceClass := defaultString(block.Attributes.String("price_class"), "PriceClass_All")
	impact, refs := confidenceNotes(block.Attributes, "price_class")

	return types.CanonicalResource{
		Type:   block.ResourceType,
		Name:   block.ResourceName,
		Region: "global",
		Size:   priceClass,
		Metadata: withDeferredMetadata(map[string]any{
			"price_class": priceClass,
		}, impact, refs),
	}
}

func extractRDSInstance(block RawBlock, _ map[string]string) types.CanonicalResource {
	instanceClass := defaultString(block.Attributes.String("instance_class"), "db.t3.micro")
	engine := defaultString(block.Attributes.String("engine"), "postgres")
	multiAZ := block.Attributes.Bool("multi_az", false)
	storage := block.Attributes.Float("allocated_storage", 20)
	encrypted := block.Attributes.Bool("storage_encrypted", false)
	public := block.Attributes.Bool("publicly_accessible", false)
	impact, refs := confidenceNotes(block.Attributes, "instance_class", "engine", "multi_az", "allocated_storage")

	size := instanceClass
	if multiAZ {
		size += "/multi-az"
	}

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: size,
		Metadata: withDeferredMetadata(map[string]any{
			"engine":               engine,
			"multi_az":             multiAZ,
			"allocated_storage":    storage,
			"storage_encrypted":    encrypted,
			"publicly_accessible":  public,
		}, impact, refs),
	}
}

func extractRDSCluster(block RawBlock, _ map[string]string) types.CanonicalResource {
	engineMode := defaultString(block.Attributes.String("engine_mode"), "provisioned")
	instances := block.Attributes.Int("replica_scaling_configuration.0.max_capacity", 1)
	impact, refs := confidenceNotes(block.Attributes, "engine_mode", "engine")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: engineMode,
		Metadata: withDeferredMetadata(map[string]any{
			"engine_mode": engineMode,
			"capacity":    instances,
		}, impact, refs),
	}
}

func extractNeptuneCluster(block RawBlock, _ map[string]string) types.CanonicalResource {
	instanceClass := defaultString(block.Attributes.String("instance_class"), "db.r5.large")
	impact, refs := confidenceNotes(block.Attributes, "instance_class")

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     instanceClass,
		Metadata: withDeferredMetadata(nil, impact, refs),
	}
}

func extractDocDBCluster(block RawBlock, _ map[string]string) types.CanonicalResource {
	instanceClass := defaultString(block.Attributes.String("instance_class"), "db.t3.medium")
	impact, refs := confidenceNotes(block.Attributes, "instance_class")

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     instanceClass,
		Metadata: withDeferredMetadata(nil, impact, refs),
	}
}

func extractDynamoDBTable(block RawBlock, _ map[string]string) types.CanonicalResource {
	billingMode := defaultString(block.Attributes.String("billing_mode"), "PAY_PER_REQUEST")
	impact, refs := confidenceNotes(block.Attributes, "billing_mode", "read_capacity", "write_capacity")

	size := billingMode
	if billingMode == "PROVISIONED" {
		read := block.Attributes.Int("read_capacity", 5)
		write := block.Attributes.Int("write_capacity", 5)
		size = fmt.Sprintf("PROVISIONED/%dr%dw", read, write)
	}

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: size,
		Metadata: withDeferredMetadata(map[string]any{
			"billing_mode": billingMode,
		}, impact, refs),
	}
}

func extractElastiCache(block RawBlock, _ map[string]string) types.CanonicalResource {
	nodeType := defaultString(block.Attributes.String("node_type"), "cache.t3.micro")
	numNodes := block.Attributes.Int("num_cache_nodes", 1)
	impact, refs := confidenceNotes(block.Attributes, "node_type", "num_cache_nodes")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  nodeType,
		Count: numNodes,
		Metadata: withDeferredMetadata(map[string]any{
			"engine": defaultString(block.Attributes.String("engine"), "redis"),
		}, impact, refs),
	}
}

func extractMSKCluster(block RawBlock, _ map[string]string) types.CanonicalResource {
	instanceType := defaultString(block.Attributes.String("instance_type"), "kafka.m5.large")
	brokers := block.Attributes.Int("number_of_broker_nodes", 3)
	impact, refs := confidenceNotes(block.Attributes, "instance_type", "number_of_broker_nodes")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  instanceType,
		Count: brokers,
		Metadata: withDeferredMetadata(map[string]any{
			"broker_nodes": brokers,
		}, impact, refs),
	}
}

// extractEMRCluster sizes by the master instance; core instances are kept
// in metadata since their count isn't always declared on the same block.
func extractEMRCluster(block RawBlock, _ map[string]string) types.CanonicalResource {
	masterType := defaultString(block.Attributes.String("master_instance_type"), "m5.xlarge")
	coreType := block.Attributes.String("core_instance_type")
	impact, refs := confidenceNotes(block.Attributes, "master_instance_type", "core_instance_type")

	meta := map[string]any{}
	if coreType != "" {
		meta["core_instance_type"] = coreType
	}

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     masterType,
		Metadata: withDeferredMetadata(meta, impact, refs),
	}
}

// extractGlueJob and extractGlueCrawler both normalize to the single
// aws_glue type, matching how the service is billed (per DPU-hour across
// both job and crawler runs).
func extractGlueJob(block RawBlock, _ map[string]string) types.CanonicalResource {
	impact, refs := confidenceNotes(block.Attributes, "role_arn", "number_of_workers")

	return types.CanonicalResource{
		Type: "aws_glue",
		Name: block.ResourceName,
		Size: "job",
		Metadata: withDeferredMetadata(map[string]any{
			"source_type": block.ResourceType,
		}, impact, refs),
	}
}

func extractGlueCrawler(block RawBlock, _ map[string]string) types.CanonicalResource {
	impact, refs := confidenceNotes(block.Attributes, "database_name")

	return types.CanonicalResource{
		Type: "aws_glue",
		Name: block.ResourceName,
		Size: "crawler",
		Metadata: withDeferredMetadata(map[string]any{
			"source_type": block.ResourceType,
		}, impact, refs),
	}
}

func extractAthenaWorkgroup(block RawBlock, _ map[string]string) types.CanonicalResource {
	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: "workgroup",
	}
}

// extractAppRunnerService reads cpu/memory out of the nested
// instance_configuration block, which the scanner flattens under dotted
// keys.
func extractAppRunnerService(block RawBlock, _ map[string]string) types.CanonicalResource {
	cpu := block.Attributes.Int("instance_configuration.cpu", 1)
	memory := block.Attributes.Int("instance_configuration.memory", 2)
	impact, refs := confidenceNotes(block.Attributes, "instance_configuration.cpu", "instance_configuration.memory")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: fmt.Sprintf("%dvCPU/%dGB", cpu, memory),
		Metadata: withDeferredMetadata(map[string]any{
			"cpu":       cpu,
			"memory_gb": memory,
		}, impact, refs),
	}
}

func extractEBSVolume(block RawBlock, _ map[string]string) types.CanonicalResource {
	volumeType := defaultString(block.Attributes.String("type"), "gp3")
	size := block.Attributes.Float("size", 8)
	encrypted := block.Attributes.Bool("encrypted", false)
	impact, refs := confidenceNotes(block.Attributes, "type", "size", "encrypted")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: fmt.Sprintf("%s/%.0fGB", volumeType, size),
		Metadata: withDeferredMetadata(map[string]any{
			"volume_type": volumeType,
			"size_gb":     size,
			"encrypted":   encrypted,
			"sku":         volumeType,
		}, impact, refs),
	}
}

func extractS3Bucket(block RawBlock, _ map[string]string) types.CanonicalResource {
	storageClass := defaultString(block.Attributes.String("storage_class"), "standard")
	impact, refs := confidenceNotes(block.Attributes, "bucket", "storage_class")

	return types.CanonicalResource{
		Type:     block.ResourceType,
		Name:     block.ResourceName,
		Size:     storageClass,
		Metadata: withDeferredMetadata(nil, impact, refs),
	}
}

func extractNATGateway(block RawBlock, _ map[string]string) types.CanonicalResource {
	hasSubnet := block.Attributes.String("subnet_id") != ""
	_, refs := confidenceNotes(block.Attributes, "subnet_id")
	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: "standard",
		Metadata: withDeferredMetadata(map[string]any{
			"has_subnet": hasSubnet,
		}, 0, refs),
	}
}

func extractLB(block RawBlock, _ map[string]string) types.CanonicalResource {
	lbType := defaultString(block.Attributes.String("load_balancer_type"), "application")
	impact, refs := confidenceNotes(block.Attributes, "load_balancer_type")

	return types.CanonicalResource{
		Type: block.ResourceType,
		Name: block.ResourceName,
		Size: lbType,
		Metadata: withDeferredMetadata(map[string]any{
			"load_balancer_type": lbType,
		}, impact, refs),
	}
}

func extractASG(block RawBlock, _ map[string]string) types.CanonicalResource {
	desired := block.Attributes.Int("desired_capacity", 1)
	impact, refs := confidenceNotes(block.Attributes, "desired_capacity", "launch_template")

	return types.CanonicalResource{
		Type:  block.ResourceType,
		Name:  block.ResourceName,
		Size:  "generic",
		Count: desired,
		Metadata: withDeferredMetadata(map[string]any{
			"desired_capacity": desired,
		}, impact, refs),
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
