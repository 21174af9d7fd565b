package view

const (
	PERTURB_INTERVAL_MILLIS = 5000
	HUMIDITY_MIN            = 35
	HUMIDITY_MAX            = 65
)

// RuntimeScript runs inside the host view. It only ever touches the rendered
// fragments and talks to the host through window.externalApp.externalBus.
const RuntimeScript = `
(function () {
    function bus() {
        return window.externalApp && window.externalApp.externalBus;
    }

    function emit(message) {
        var send = bus();
        if (!send) {
            return;
        }
        try {
            send(JSON.stringify(message));
        } catch (e) {
            // the host may drop messages
        }
    }

    window.toggleEntity = function (entityId, currentState) {
        var newState = currentState === 'on' ? 'off' : 'on';

        var button = document.querySelector('[data-entity-id="' + entityId + '"]');
        if (button) {
            button.className = 'control-button ' + newState;
            button.textContent = newState.toUpperCase();
            button.setAttribute('data-state', newState);
            button.setAttribute('onclick', "toggleEntity('" + entityId + "', '" + newState + "')");
        }

        emit({
            type: 'call_service',
            domain: entityId.split('.')[0],
            service: newState === 'on' ? 'turn_on' : 'turn_off',
            service_data: { entity_id: entityId }
        });
    };

    setInterval(function () {
        var temperature = document.querySelector('[data-sensor="temperature"]');
        if (temperature) {
            var t = parseFloat(temperature.textContent);
            temperature.textContent = (t + (Math.random() - 0.5) * 0.2).toFixed(1);
        }

        var humidity = document.querySelector('[data-sensor="humidity"]');
        if (humidity) {
            var h = parseInt(humidity.textContent);
            h = h + Math.floor((Math.random() - 0.5) * 3);
            humidity.textContent = Math.max(35, Math.min(65, h));
        }
    }, 5000);

    document.addEventListener('DOMContentLoaded', function () {
        emit({ type: 'connection-status', payload: { event: 'connected' } });
    });
})();
`
