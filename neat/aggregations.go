package neat

import "fmt"

// AggregationType folds the weighted inputs of a node into one value.
type AggregationType func(inputs []float64) float64

// AggregationFunctions lists the aggregations selectable by name from [Network].
var AggregationFunctions = map[string]AggregationType{
	"sum":     Sum,
	"product": AggregateProduct,
	"min":     MinFloat,
	"max":     MaxFloat,
	"mean":    Mean,
	"median":  Median,
}

// GetAggregation retrieves an aggregation function by name.
func GetAggregation(name string) (AggregationType, error) {
	if fn, ok := AggregationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown aggregation function: %s", name)
}

// AggregateProduct multiplies the inputs. An empty input yields 1.
func AggregateProduct(inputs []float64) float64 {
	product := 1.0
	for _, v := range inputs {
		product *= v
	}
	return product
}
