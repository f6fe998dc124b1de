// Package tuner exports a candidate forest as an irace parameter file.
//
// Every tunable parameter at every tree position becomes one line:
//
//	ROOT "--ROOT=" c (GRASP, VNS)
//	ROOT_GRASP.iterations "--ROOT_GRASP.iterations=" i (1, 1000) | ROOT == "GRASP"
//	ROOT_GRASP.improver "--ROOT_GRASP.improver=" c (NullImprover, VND) | ROOT == "GRASP"
//	ROOT_GRASP.improver_VND.first "--ROOT_GRASP.improver_VND.first=" c (BestImprovement) | ROOT_GRASP.improver == "VND"
//
// Names are built from the (parameter, component) pairs leading from the
// root, so a component reachable from two parents yields two independent
// sets of lines. Provided parameters are never exported.
package tuner
