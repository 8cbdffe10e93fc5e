package training

// Accuracy is the fraction of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix builds the 3x3 matrix indexed [actual][predicted] in
// label order Away, Draw, Home.
func ConfusionMatrix(yTrue, yPred []int) [NumClasses][NumClasses]int {
	var cm [NumClasses][NumClasses]int
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}
	return cm
}

// WeightedPRF computes precision, recall and F1 weighted by class support,
// matching the three-class weighted average the evaluation reports. A
// class never predicted contributes zero precision rather than NaN.
func WeightedPRF(yTrue, yPred []int) (precision, recall, f1 float64) {
	if len(yTrue) == 0 {
		return 0, 0, 0
	}
	cm := ConfusionMatrix(yTrue, yPred)

	total := float64(len(yTrue))
	for c := 0; c < NumClasses; c++ {
		tp := float64(cm[c][c])
		var predicted, actual float64
		for other := 0; other < NumClasses; other++ {
			predicted += float64(cm[other][c])
			actual += float64(cm[c][other])
		}

		var p, r, f float64
		if predicted > 0 {
			p = tp / predicted
		}
		if actual > 0 {
			r = tp / actual
		}
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}

		support := actual / total
		precision += support * p
		recall += support * r
		f1 += support * f
	}
	return precision, recall, f1
}
