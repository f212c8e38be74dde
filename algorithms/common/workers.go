package common

import "runtime"

// WorkerCount picks a goroutine count for a fan-out over numJobs independent jobs
func WorkerCount(numJobs int) int {
	if numJobs <= 1 {
		return 1
	}

	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numJobs < 100 {
		return max(1, min(numCPU/2, numJobs))
	}

	// Cap medium workloads at 8
	if numJobs < 1000 {
		return max(1, min(numCPU, 8))
	}

	return numCPU
}
