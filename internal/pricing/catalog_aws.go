package pricing

import "github.com/finopsguard/finopsguard/internal/types"

// registerAWSCatalog populates deterministic AWS rates. SKUs are
// "<resource_type>:<size>", or "<resource_type>:<metadata sku>" where the
// extractor records one, so the factory's sku() can build a lookup key
// straight from a CanonicalResource without a separate SKU-naming table.
func registerAWSCatalog(c *Catalog) {
	// EC2 on-demand, Linux, us-east-1 reference prices.
	ec2 := map[string]string{
		"t3.micro":   "0.0104",
		"t3.small":   "0.0208",
		"t3.medium":  "0.0416",
		"t3.large":   "0.0832",
		"m5.large":   "0.096",
		"m5.xlarge":  "0.192",
		"c5.large":   "0.085",
		"r5.large":   "0.126",
	}
	for size, price := range ec2 {
		c.register("aws", "aws_instance:"+size, "us-east-1", types.UnitHour, price, "us-east-1")
	}
	c.register("aws", "aws_instance:t3.micro", "us-west-2", types.UnitHour, "0.0104", "us-east-1")

	c.register("aws", "aws_lambda_function:128MB", "us-east-1", types.UnitRequest, "0.0000002", "us-east-1")
	c.register("aws", "aws_lambda_function:256MB", "us-east-1", types.UnitRequest, "0.0000004", "us-east-1")
	c.register("aws", "aws_lambda_function:512MB", "us-east-1", types.UnitRequest, "0.0000008", "us-east-1")

	c.register("aws", "aws_ecs_service:FARGATE", "us-east-1", types.UnitHour, "0.04048", "us-east-1")
	// EC2-launch services bill through their container instances, not the
	// service itself.
	c.register("aws", "aws_ecs_service:EC2", "us-east-1", types.UnitHour, "0", "us-east-1")
	c.register("aws", "aws_ecs_task_definition:256cpu/512mb", "us-east-1", types.UnitHour, "0.02024", "us-east-1")

	// Per shard-hour; the extractor carries the shard count in Count.
	c.register("aws", "aws_kinesis_stream:shard", "us-east-1", types.UnitHour, "0.015", "us-east-1")

	// The cluster resource itself is free; services and instances carry
	// the cost.
	c.register("aws", "aws_ecs_cluster:cluster", "us-east-1", types.UnitMonth, "0", "us-east-1")

	c.register("aws", "aws_sqs_queue:standard", "us-east-1", types.UnitRequest, "0.0000004", "us-east-1")
	c.register("aws", "aws_sqs_queue:fifo", "us-east-1", types.UnitRequest, "0.0000005", "us-east-1")

	c.register("aws", "aws_sns_topic:topic", "us-east-1", types.UnitRequest, "0.0000005", "us-east-1")

	// STANDARD bills per state transition, EXPRESS per request.
	c.register("aws", "aws_sfn_state_machine:STANDARD", "us-east-1", types.UnitRequest, "0.000025", "us-east-1")
	c.register("aws", "aws_sfn_state_machine:EXPRESS", "us-east-1", types.UnitRequest, "0.000001", "us-east-1")

	c.register("aws", "aws_api_gateway:HTTP", "us-east-1", types.UnitRequest, "0.000001", "us-east-1")
	c.register("aws", "aws_api_gateway:WEBSOCKET", "us-east-1", types.UnitRequest, "0.000001", "us-east-1")
	c.register("aws", "aws_api_gateway:REST", "us-east-1", types.UnitRequest, "0.0000035", "us-east-1")

	c.register("aws", "aws_cloudfront_distribution:PriceClass_All", "global", types.UnitGBMonth, "0.085", "global")

	c.register("aws", "aws_db_instance:db.t3.micro", "us-east-1", types.UnitHour, "0.017", "us-east-1")
	c.register("aws", "aws_db_instance:db.t3.micro/multi-az", "us-east-1", types.UnitHour, "0.034", "us-east-1")

	c.register("aws", "aws_rds_cluster:provisioned", "us-east-1", types.UnitHour, "0.20", "us-east-1")

	c.register("aws", "aws_neptune_cluster:db.r5.large", "us-east-1", types.UnitHour, "0.348", "us-east-1")
	c.register("aws", "aws_neptune_cluster:db.r5.xlarge", "us-east-1", types.UnitHour, "0.696", "us-east-1")

	c.register("aws", "aws_docdb_cluster:db.t3.medium", "us-east-1", types.UnitHour, "0.07812", "us-east-1")
	c.register("aws", "aws_docdb_cluster:db.r5.large", "us-east-1", types.UnitHour, "0.277", "us-east-1")

	c.register("aws", "aws_dynamodb_table:PAY_PER_REQUEST", "us-east-1", types.UnitRequest, "0.00000125", "us-east-1")

	c.register("aws", "aws_elasticache_cluster:cache.t3.micro", "us-east-1", types.UnitHour, "0.017", "us-east-1")

	// Per broker-hour; the extractor carries the broker count in Count.
	c.register("aws", "aws_msk_cluster:kafka.m5.large", "us-east-1", types.UnitHour, "0.21", "us-east-1")
	c.register("aws", "aws_msk_cluster:kafka.t3.small", "us-east-1", types.UnitHour, "0.0456", "us-east-1")

	// Master instance rate plus the EMR surcharge.
	c.register("aws", "aws_emr_cluster:m5.xlarge", "us-east-1", types.UnitHour, "0.24", "us-east-1")
	c.register("aws", "aws_emr_cluster:m5.large", "us-east-1", types.UnitHour, "0.12", "us-east-1")

	// Per DPU-hour for both jobs and crawlers.
	c.register("aws", "aws_glue:job", "us-east-1", types.UnitHour, "0.44", "us-east-1")
	c.register("aws", "aws_glue:crawler", "us-east-1", types.UnitHour, "0.44", "us-east-1")

	// Athena bills per TB scanned; with no declared scan volume the
	// workgroup itself contributes nothing.
	c.register("aws", "aws_athena_workgroup:workgroup", "us-east-1", types.UnitMonth, "0", "us-east-1")

	c.register("aws", "aws_apprunner_service:1vCPU/2GB", "us-east-1", types.UnitHour, "0.078", "us-east-1")
	c.register("aws", "aws_apprunner_service:2vCPU/4GB", "us-east-1", types.UnitHour, "0.156", "us-east-1")

	// Per GB-month; the extractor carries the capacity in metadata size_gb.
	c.register("aws", "aws_ebs_volume:gp3", "us-east-1", types.UnitGBMonth, "0.08", "us-east-1")
	c.register("aws", "aws_ebs_volume:gp2", "us-east-1", types.UnitGBMonth, "0.10", "us-east-1")
	c.register("aws", "aws_ebs_volume:io1", "us-east-1", types.UnitGBMonth, "0.125", "us-east-1")

	c.register("aws", "aws_s3_bucket:standard", "us-east-1", types.UnitGBMonth, "0.023", "us-east-1")
	c.register("aws", "aws_s3_bucket:INTELLIGENT_TIERING", "us-east-1", types.UnitGBMonth, "0.023", "us-east-1")
	c.register("aws", "aws_s3_bucket:STANDARD_IA", "us-east-1", types.UnitGBMonth, "0.0125", "us-east-1")

	c.register("aws", "aws_nat_gateway:standard", "us-east-1", types.UnitHour, "0.045", "us-east-1")

	c.register("aws", "aws_lb:application", "us-east-1", types.UnitHour, "0.0225", "us-east-1")

	c.register("aws", "aws_autoscaling_group:generic", "us-east-1", types.UnitHour, "0.0416", "us-east-1")
}
