// Package services wires the domain engines into the two entry points:
// the batch processing pipeline that ingests report extracts and rewrites
// the dataset outputs, and the data service that serves analytics and deal
// underwriting over the loaded dataset.
package services
