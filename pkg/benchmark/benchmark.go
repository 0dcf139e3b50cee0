// Package benchmark measures duotone filtering throughput under the
// execution strategies the pipeline supports: phase-by-phase direct
// processing, cached re-runs, and concurrent batches.
package benchmark

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"pinku/pkg/cache"
	"pinku/pkg/imagefilter"
	"pinku/pkg/pipeline"
)

// BenchmarkResult represents the result of a benchmark run
type BenchmarkResult struct {
	DecodeTime time.Duration
	FilterTime time.Duration
	EncodeTime time.Duration
	TotalTime  time.Duration
}

// BatchResult represents the result of a whole-batch benchmark run
type BatchResult struct {
	TotalTime time.Duration
	Succeeded int
	Failed    int
}

// CPUInfo holds information about the CPU
type CPUInfo struct {
	Cores       int
	Threads     int
	UseParallel bool
}

// GetCPUInfo returns information about the CPU
func GetCPUInfo() CPUInfo {
	return CPUInfo{
		Cores:       runtime.NumCPU(),
		Threads:     runtime.GOMAXPROCS(0),
		UseParallel: runtime.GOMAXPROCS(0) > 1,
	}
}

// RunDirectBenchmark filters a single image outside the pipeline,
// measuring the decode, filter, and encode phases separately
func RunDirectBenchmark(src pipeline.SourceImage) BenchmarkResult {
	var result BenchmarkResult

	// Measure decode time
	startTime := time.Now()
	buffer, err := imagefilter.Decode(src.Data)
	if err != nil {
		log.Printf("Decode error: %v", err)
		return result
	}
	result.DecodeTime = time.Since(startTime)

	// Measure filter time
	startTime = time.Now()
	imagefilter.FilterImage(buffer)
	result.FilterTime = time.Since(startTime)

	// Measure encode time
	startTime = time.Now()
	if _, err := imagefilter.EncodePNG(buffer); err != nil {
		log.Printf("Encode error: %v", err)
		return result
	}
	result.EncodeTime = time.Since(startTime)

	result.TotalTime = result.DecodeTime + result.FilterTime + result.EncodeTime
	return result
}

// RunBatchBenchmark times one pipeline invocation over the given images
// with the given concurrency limit (0 means one task per image)
func RunBatchBenchmark(images []pipeline.SourceImage, maxConcurrent int) BatchResult {
	p := pipeline.New(pipeline.Config{MaxConcurrent: maxConcurrent})

	startTime := time.Now()
	res, err := p.Run(images)
	if err != nil {
		log.Printf("Pipeline error: %v", err)
		return BatchResult{}
	}

	return BatchResult{
		TotalTime: time.Since(startTime),
		Succeeded: len(res.Images),
		Failed:    len(res.Failures),
	}
}

// RunCachedBenchmark times a second pipeline invocation over the same
// images after a first run has populated the cache
func RunCachedBenchmark(images []pipeline.SourceImage) BatchResult {
	c := cache.NewInMemoryCache(time.Hour)
	p := pipeline.New(pipeline.Config{Cache: c})

	// First run to populate cache
	if _, err := p.Run(images); err != nil {
		log.Printf("Pipeline error: %v", err)
		return BatchResult{}
	}

	// Now benchmark with cache
	startTime := time.Now()
	res, err := p.Run(images)
	if err != nil {
		log.Printf("Pipeline error: %v", err)
		return BatchResult{}
	}

	return BatchResult{
		TotalTime: time.Since(startTime),
		Succeeded: len(res.Images),
		Failed:    len(res.Failures),
	}
}

// FormatBenchmarkResult formats a benchmark result for display
func FormatBenchmarkResult(result BenchmarkResult) string {
	return fmt.Sprintf(
		"Decode: %v\nFilter: %v\nEncode: %v\nTotal: %v",
		result.DecodeTime,
		result.FilterTime,
		result.EncodeTime,
		result.TotalTime,
	)
}

// CalculateImprovement calculates the percentage improvement between two
// batch benchmark results
func CalculateImprovement(baseline, improved BatchResult) float64 {
	if baseline.TotalTime == 0 {
		return 0
	}
	return 100 * (1 - float64(improved.TotalTime)/float64(baseline.TotalTime))
}

// GeneratePerformanceSummary generates a human-readable performance
// summary comparing sequential, concurrent, and cached execution
func GeneratePerformanceSummary(sequential, concurrent, cached BatchResult) string {
	cpuInfo := GetCPUInfo()

	return fmt.Sprintf(`
Performance Summary
==================

Hardware Information:
- CPU Cores: %d
- Threads: %d
- Parallel Execution: %t

Sequential Execution: %v (%d succeeded, %d failed)
Concurrent Execution: %v (%d succeeded, %d failed)
Cached Execution: %v (%d succeeded, %d failed)

Concurrency Improvement: %.2f%%
Cache Improvement: %.2f%%

Recommendation:
%s`,
		cpuInfo.Cores,
		cpuInfo.Threads,
		cpuInfo.UseParallel,
		sequential.TotalTime, sequential.Succeeded, sequential.Failed,
		concurrent.TotalTime, concurrent.Succeeded, concurrent.Failed,
		cached.TotalTime, cached.Succeeded, cached.Failed,
		CalculateImprovement(sequential, concurrent),
		CalculateImprovement(sequential, cached),
		generateRecommendation(sequential, concurrent, cached, cpuInfo),
	)
}

// generateRecommendation generates performance recommendations based on
// benchmark results
func generateRecommendation(sequential, concurrent, cached BatchResult, cpuInfo CPUInfo) string {
	var recommendations []string

	if cpuInfo.Cores > 2 && CalculateImprovement(sequential, concurrent) < 20 {
		recommendations = append(recommendations,
			"- Concurrency gains are small for this batch. Image decode may dominate; larger batches benefit more.")
	}

	if CalculateImprovement(sequential, cached) > 50 {
		recommendations = append(recommendations,
			"- Caching provides significant benefits for repeated inputs. Consider a longer cache TTL.")
	} else {
		recommendations = append(recommendations,
			"- Cache benefits are moderate. Inputs are mostly unique; rely on concurrency instead.")
	}

	if cpuInfo.Cores > 2 {
		recommendations = append(recommendations,
			fmt.Sprintf("- Your system has %d cores. A MaxConcurrent of %d bounds memory while keeping cores busy.",
				cpuInfo.Cores, cpuInfo.Cores))
	}

	result := ""
	for _, rec := range recommendations {
		result += rec + "\n"
	}
	return result
}
