// Package neat is the module root of a NEAT topology engine.
//
// The engine maintains the structure of individual NEAT genotypes: ordered
// node and connection genes plus a directed graph derived from the enabled
// connections. Structural mutations (split a connection, add a connection,
// toggle a connection) keep that graph acyclic, so every genotype can be
// evaluated feed-forward in topological order.
//
// Packages:
//
//	neat          genes, genotypes, mutations, config, model files, checkpoints
//	neat/graph    the adjacency graph: topsort, ancestors, cycles, components
//	neat/nn       feed-forward activation of a genotype
//	neat/eval     the evaluation loop and the XOR game
//	neat/probe    text, YAML and Graphviz views of a genotype
//	neat/trace    CSV trace of mutation steps
//	neat/metrics  Prometheus metrics for mutation outcomes
//	neat/storage  genotype archive (memory or BadgerDB)
//
// Basic usage:
//
//	g, err := neat.NewGenotype(3, 2, neat.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//	cfg := neat.DefaultConfig()
//	for i := 0; i < 10; i++ {
//		if _, err := g.Mutate(&cfg.Mutation); err != nil {
//			log.Fatal(err)
//		}
//	}
//	if err := neat.DumpModel(g, neat.ModelPath(".", g.ID)); err != nil {
//		log.Fatal(err)
//	}
package neat
