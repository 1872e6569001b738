// Package processor contains the logic behind every handytools command.
// It reads input files, drives an image.Editor or a speech.Controller,
// picks the download sink (local directory, NATS object store or S3) and
// reports results. This package serves as the coordinator between all
// other components.
package processor
