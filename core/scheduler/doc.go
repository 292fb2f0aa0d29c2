// Package scheduler places cooking tasks on kitchen appliances within a
// bounded session. It assigns start times with a priority ordered greedy
// pass, detects overlapping tasks on the same appliance and estimates how
// long a session needs to be. Plans can be loaded from JSON or YAML files.
package scheduler
