package iacparser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBasicAWSInstance(t *testing.T) {
	src := []byte(`
resource "aws_instance" "example" {
  instance_type = "t3.medium"
}

provider "aws" {
  region = "us-east-1"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 1)

	r := model.Resources[0]
	require.Equal(t, "aws_instance", r.Type)
	require.Equal(t, "t3.medium", r.Size)
	require.Equal(t, "us-east-1", r.Region)
	require.Equal(t, 1, r.Count)
}

func TestParseUnknownResourceTypeIsRecordedNotFailed(t *testing.T) {
	src := []byte(`
resource "aws_quantum_widget" "mystery" {
  foo = "bar"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 1)

	r := model.Resources[0]
	require.Equal(t, "aws_quantum_widget", r.Type)
	require.Equal(t, "unknown", r.Size)
	require.Equal(t, "unpriced_resource:aws_quantum_widget", r.Metadata["risk_flag"])
}

func TestParseDeferredExpressionIsNotResolved(t *testing.T) {
	src := []byte(`
variable "instance_type" {
  default = "t3.medium"
}

resource "aws_instance" "example" {
  instance_type = var.instance_type
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 1)

	r := model.Resources[0]
	// instance_type couldn't be resolved literally, so the extractor falls
	// back to its default rather than guessing at the variable's value.
	require.Equal(t, "t3.micro", r.Size)
	require.NotNil(t, r.Metadata["unresolved_references"])
}

func TestParseDataSourceBlocksAreNotResources(t *testing.T) {
	src := []byte(`
data "aws_ami" "ubuntu" {
  most_recent = true
}

resource "aws_instance" "example" {
  instance_type = "t3.small"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 1)
	require.Equal(t, "aws_instance", model.Resources[0].Type)
}

func TestParseSyntaxErrorReturnsParsingError(t *testing.T) {
	src := []byte(`resource "aws_instance" "example" {`)

	_, err := Parse(src, "main.tf")
	require.Error(t, err)
}

func TestParseSpannerSizesByNodeCount(t *testing.T) {
	src := []byte(`
resource "google_spanner_instance" "spanner" {
  num_nodes = 2
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 1)

	r := model.Resources[0]
	require.Equal(t, "gcp_spanner_instance", r.Type)
	require.Equal(t, "2nodes", r.Size)
	require.Equal(t, 2, r.Count)
	require.Equal(t, "node", r.Metadata["sku"])
}

func TestParseSpannerSizesByProcessingUnits(t *testing.T) {
	src := []byte(`
resource "google_spanner_instance" "spanner" {
  processing_units = 500
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "500PU", r.Size)
	require.Equal(t, 500, r.Count)
}

func TestParseECSServiceEmbedsTaskCountInSize(t *testing.T) {
	src := []byte(`
resource "aws_ecs_service" "api" {
  launch_type   = "FARGATE"
  desired_count = 3
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "FARGATE/3tasks", r.Size)
	require.Equal(t, 3, r.Count)
}

func TestParseCountAttributeMultipliesReplicas(t *testing.T) {
	src := []byte(`
resource "aws_instance" "fleet" {
  count         = 4
  instance_type = "t3.small"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Equal(t, 4, model.Resources[0].Count)
}

func TestParseLiteralTags(t *testing.T) {
	src := []byte(`
resource "aws_instance" "web" {
  instance_type = "t3.small"
  tags = {
    owner = "platform"
    env   = "dev"
  }
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"owner": "platform", "env": "dev"}, model.Resources[0].Tags)
}

func TestParseAppRunnerReadsNestedInstanceConfiguration(t *testing.T) {
	src := []byte(`
resource "aws_apprunner_service" "api" {
  service_name = "api-service"

  instance_configuration {
    cpu    = 2
    memory = 4
  }
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "2vCPU/4GB", r.Size)
}

func TestParseAPIGatewayVariantsNormalizeToOneType(t *testing.T) {
	src := []byte(`
resource "aws_apigatewayv2_api" "http_api" {
  name          = "http-api"
  protocol_type = "HTTP"
}

resource "aws_api_gateway_rest_api" "rest_api" {
  name = "rest-api"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 2)
	for _, r := range model.Resources {
		require.Equal(t, "aws_api_gateway", r.Type)
	}
}

func TestParseGlueVariantsNormalizeToOneType(t *testing.T) {
	src := []byte(`
resource "aws_glue_job" "etl" {
  name = "etl-job"
}

resource "aws_glue_crawler" "s3_crawler" {
  name = "s3-crawler"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 2)
	for _, r := range model.Resources {
		require.Equal(t, "aws_glue", r.Type)
	}
}

func TestParseMSKClusterCountsBrokers(t *testing.T) {
	src := []byte(`
resource "aws_msk_cluster" "kafka" {
  cluster_name           = "kafka-cluster"
  instance_type          = "kafka.m5.large"
  number_of_broker_nodes = 3
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "kafka.m5.large", r.Size)
	require.Equal(t, 3, r.Count)
}

func TestParseS3BucketStorageClass(t *testing.T) {
	src := []byte(`
resource "aws_s3_bucket" "data" {
  bucket        = "my-data-bucket"
  storage_class = "INTELLIGENT_TIERING"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Equal(t, "INTELLIGENT_TIERING", model.Resources[0].Size)
}

func TestParseFilestoreReadsNestedFileShares(t *testing.T) {
	src := []byte(`
resource "google_filestore_instance" "nfs" {
  name = "nfs-server"
  tier = "PREMIUM"

  file_shares {
    capacity_gb = 2560
    name        = "share1"
  }
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "gcp_filestore_instance", r.Type)
	require.Equal(t, "PREMIUM/2560GB", r.Size)
	require.Equal(t, 2560.0, r.Metadata["capacity_gb"])
}

func TestParseComposerReadsNestedNodeConfig(t *testing.T) {
	src := []byte(`
resource "google_composer_environment" "airflow" {
  name   = "composer-env"
  region = "us-central1"

  config {
    node_count = 3

    node_config {
      machine_type = "n1-standard-4"
    }
  }
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "gcp_composer_environment", r.Type)
	require.Equal(t, "n1-standard-4/3nodes", r.Size)
	require.Equal(t, 3, r.Count)
}

func TestParseDataprocReadsNestedClusterConfig(t *testing.T) {
	src := []byte(`
resource "google_dataproc_cluster" "spark" {
  name   = "spark-cluster"
  region = "us-central1"

  cluster_config {
    master_config {
      num_instances = 1
      machine_type  = "n1-standard-8"
    }

    worker_config {
      num_instances = 4
      machine_type  = "n1-standard-4"
    }
  }
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "gcp_dataproc_cluster", r.Type)
	require.Equal(t, "n1-standard-8/4workers", r.Size)
	require.Equal(t, 5, r.Count)
	require.Equal(t, 4, r.Metadata["worker_count"])
}

func TestParseCloudArmorNormalizesTypeAndRegion(t *testing.T) {
	src := []byte(`
resource "google_compute_security_policy" "policy" {
  name = "my-security-policy"
}
`)

	model, err := Parse(src, "main.tf")
	require.NoError(t, err)

	r := model.Resources[0]
	require.Equal(t, "gcp_cloud_armor", r.Type)
	require.Equal(t, "global", r.Region)
}

func TestParseResourceIDIsTypeDotName(t *testing.T) {
	src := []byte(`
resource "aws_s3_bucket" "a" {
  bucket = "one"
}
`)
	model, err := Parse(src, "main.tf")
	require.NoError(t, err)
	require.Len(t, model.Resources, 1)
	require.Equal(t, "aws_s3_bucket.a", model.Resources[0].ID)
}
