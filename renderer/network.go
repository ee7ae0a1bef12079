package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/landonWcummings/landoncummings.com-sub000/neural"
)

// InputLabels name the policy inputs in network order.
var InputLabels = [neural.NumInputs]string{
	"Pos X", "Pos Y", "Vel X", "Vel Y", "Tgt dX", "Tgt dY", "Ground", "Obstacle",
}

// OutputLabels name the policy outputs.
var OutputLabels = [neural.NumOutputs]string{"Left", "Right", "Jump"}

// Network colors for activation visualization.
var (
	ColorNodeInactive = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// DrawNetworkDiagram renders the policy network with one tick's
// activations.
func DrawNetworkDiagram(x, y, width, height int32, nn *neural.Policy, act *neural.Activations) {
	if nn == nil || act == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	colWidth := float32(width) / 3
	nodeRadius := float32(6)
	usable := float32(height - 20)

	inputNodes := layerNodes(float32(x)+colWidth/2, float32(y)+10, usable, neural.NumInputs)
	hiddenNodes := layerNodes(float32(x)+colWidth*1.5, float32(y)+10, usable, neural.NumHidden)
	outputNodes := layerNodes(float32(x)+colWidth*2.5, float32(y)+10, usable, neural.NumOutputs)

	// Edges (input -> hidden)
	for h := 0; h < neural.NumHidden; h++ {
		for i := 0; i < neural.NumInputs; i++ {
			if w := nn.W1[h][i]; absFloat(w) >= 0.1 {
				drawEdge(inputNodes[i], hiddenNodes[h], w)
			}
		}
	}
	// Edges (hidden -> output)
	for o := 0; o < neural.NumOutputs; o++ {
		for h := 0; h < neural.NumHidden; h++ {
			if w := nn.W2[o][h]; absFloat(w) >= 0.1 {
				drawEdge(hiddenNodes[h], outputNodes[o], w)
			}
		}
	}

	for i, pos := range inputNodes {
		drawNode(pos, nodeRadius, act.Inputs[i])
		labelWidth := rl.MeasureText(InputLabels[i], 10)
		rl.DrawText(InputLabels[i], int32(pos.X-nodeRadius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
	}
	for i, pos := range hiddenNodes {
		drawNode(pos, nodeRadius, act.Hidden[i])
	}
	for i, pos := range outputNodes {
		// Outputs are sigmoids; center on the decision threshold
		drawNode(pos, nodeRadius+2, 2*(act.Outputs[i]-neural.DecisionThreshold))
		rl.DrawText(OutputLabels[i], int32(pos.X+nodeRadius+6), int32(pos.Y)-5, 10, ColorLabelDim)
	}
}

// layerNodes spaces n nodes evenly in a column.
func layerNodes(x, top, usable float32, n int) []rl.Vector2 {
	spacing := usable / float32(n)
	nodes := make([]rl.Vector2, n)
	for i := range nodes {
		nodes[i] = rl.Vector2{X: x, Y: top + spacing*(float32(i)+0.5)}
	}
	return nodes
}

// drawNode renders a single neuron node.
func drawNode(pos rl.Vector2, radius float32, activation float64) {
	rl.DrawCircleV(pos, radius, ActivationColor(activation))
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a connection between nodes.
func drawEdge(from, to rl.Vector2, weight float64) {
	thickness := float32(min(max(absFloat(weight)*1.5, 0.5), 3))

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	// Alpha follows weight magnitude
	color.A = uint8(min(40+int(absFloat(weight)*40), 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// ActivationColor maps an activation in [-1, 1] to a color.
// Negative = blue, zero = gray, positive = red.
func ActivationColor(activation float64) rl.Color {
	t := float32(min(absFloat(activation), 1))
	if activation > 0 {
		return rl.Color{R: uint8(60 + t*195), G: uint8(60 - t*30), B: uint8(60 - t*30), A: 255}
	}
	if activation < 0 {
		return rl.Color{R: uint8(60 - t*30), G: uint8(60 - t*30), B: uint8(60 + t*195), A: 255}
	}
	return ColorNodeInactive
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
