package camera

// CameraControllerOption is a functional option for configuring a
// CameraController via NewOrbitController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTarget is an option builder that sets the orbit pivot point.
//
// Parameters:
//   - x, y, z: world-space coordinates of the pivot
//
// Returns:
//   - CameraControllerOption: a function that applies the target to a controller
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithRadius is an option builder that sets the initial orbit radius.
//
// Parameters:
//   - radius: initial distance from target
//
// Returns:
//   - CameraControllerOption: a function that applies the radius to a controller
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithRadiusBounds is an option builder that sets the min/max orbit radius.
// A non-positive min or a max below min leaves the respective default in place.
//
// Parameters:
//   - minRadius: minimum zoom distance
//   - maxRadius: maximum zoom distance
//
// Returns:
//   - CameraControllerOption: a function that applies the bounds to a controller
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if minRadius > 0 {
			cc.minRadius = minRadius
		}
		if maxRadius >= cc.minRadius {
			cc.maxRadius = maxRadius
		}
	}
}

// WithAzimuth is an option builder that sets the initial horizontal angle.
//
// Parameters:
//   - azimuth: horizontal angle in radians
//
// Returns:
//   - CameraControllerOption: a function that applies the azimuth to a controller
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation is an option builder that sets the initial vertical angle.
//
// Parameters:
//   - elevation: vertical angle in radians
//
// Returns:
//   - CameraControllerOption: a function that applies the elevation to a controller
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithOrbitSpeed is an option builder that sets the keyboard orbit step size.
//
// Parameters:
//   - speed: radians per orbit call
//
// Returns:
//   - CameraControllerOption: a function that applies the speed to a controller
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithZoomSpeed is an option builder that sets the zoom speed multiplier.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - CameraControllerOption: a function that applies the speed to a controller
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithMouseSensitivity is an option builder that sets the mouse drag
// sensitivity multiplier.
//
// Parameters:
//   - sensitivity: multiplier for mouse movement
//
// Returns:
//   - CameraControllerOption: a function that applies the sensitivity to a controller
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}
